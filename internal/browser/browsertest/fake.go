// Package browsertest provides an in-memory browser engine that records what
// the harness asks of it.
package browsertest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"uiHarness/internal/browser"
)

// Engine is a fake browser.Engine. Error fields inject failures into the
// matching call. Every launched handle is kept in Handles.
type Engine struct {
	mu sync.Mutex

	LaunchErr     error
	ContextErr    error
	SurfaceErr    error
	NavigateErr   error
	ScreenshotErr error
	CloseErr      error
	TraceErr      error

	// Hidden lists selectors that report not visible. Everything else is
	// visible.
	Hidden map[string]bool
	// Texts maps selectors to their inner text.
	Texts map[string]string

	Launches []Launch
	Handles  []*Handle
}

type Launch struct {
	Kind    browser.Kind
	Options browser.LaunchOptions
}

func New() *Engine {
	return &Engine{
		Hidden: map[string]bool{},
		Texts:  map[string]string{},
	}
}

func (e *Engine) Launch(ctx context.Context, kind browser.Kind, opts browser.LaunchOptions) (browser.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Launches = append(e.Launches, Launch{Kind: kind, Options: opts})
	if e.LaunchErr != nil {
		return nil, e.LaunchErr
	}
	h := &Handle{engine: e}
	e.Handles = append(e.Handles, h)
	return h, nil
}

// Last returns the most recent handle, or nil.
func (e *Engine) Last() *Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Handles) == 0 {
		return nil
	}
	return e.Handles[len(e.Handles)-1]
}

type Handle struct {
	engine *Engine

	Contexts   []*Context
	CloseCalls int
}

func (h *Handle) NewContext(opts browser.ContextOptions) (browser.BrowserContext, error) {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()

	if h.engine.ContextErr != nil {
		return nil, h.engine.ContextErr
	}
	if opts.RecordVideoDir != "" {
		if err := os.MkdirAll(opts.RecordVideoDir, 0o755); err != nil {
			return nil, err
		}
	}
	c := &Context{engine: h.engine, Options: opts}
	h.Contexts = append(h.Contexts, c)
	return c, nil
}

func (h *Handle) Close() error {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	h.CloseCalls++
	return h.engine.CloseErr
}

// Surface returns the first surface of the first context, or nil.
func (h *Handle) Surface() *Surface {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	if len(h.Contexts) == 0 || len(h.Contexts[0].Surfaces) == 0 {
		return nil
	}
	return h.Contexts[0].Surfaces[0]
}

type Context struct {
	engine *Engine

	Options    browser.ContextOptions
	Timeouts   browser.Timeouts
	Surfaces   []*Surface
	TracePaths []string
	CloseCalls int
}

func (c *Context) NewSurface(timeouts browser.Timeouts) (browser.Surface, error) {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()

	if c.engine.SurfaceErr != nil {
		return nil, c.engine.SurfaceErr
	}
	c.Timeouts = timeouts
	s := &Surface{engine: c.engine}
	if c.Options.RecordVideoDir != "" {
		s.video = filepath.Join(c.Options.RecordVideoDir, fmt.Sprintf("video-%d.webm", len(c.Surfaces)))
		if err := os.WriteFile(s.video, []byte("webm"), 0o644); err != nil {
			return nil, err
		}
	}
	c.Surfaces = append(c.Surfaces, s)
	return s, nil
}

func (c *Context) StopTracing(path string) error {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()

	c.TracePaths = append(c.TracePaths, path)
	if c.engine.TraceErr != nil {
		return c.engine.TraceErr
	}
	if path == "" {
		return nil
	}
	return os.WriteFile(path, []byte("trace"), 0o644)
}

func (c *Context) Close() error {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	c.CloseCalls++
	return nil
}

// Action is one recorded surface call.
type Action struct {
	Name     string
	Selector string
	Value    string
}

type Surface struct {
	engine *Engine

	url   string
	video string

	Navigations []string
	Screenshots []string
	Actions     []Action
}

func (s *Surface) Navigate(ctx context.Context, url string) error {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()

	s.Navigations = append(s.Navigations, url)
	if s.engine.NavigateErr != nil {
		return s.engine.NavigateErr
	}
	s.url = url
	return nil
}

func (s *Surface) Screenshot(path string) error {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()

	s.Screenshots = append(s.Screenshots, path)
	if s.engine.ScreenshotErr != nil {
		return s.engine.ScreenshotErr
	}
	return os.WriteFile(path, []byte("png"), 0o644)
}

func (s *Surface) record(name, selector, value string) {
	s.Actions = append(s.Actions, Action{Name: name, Selector: selector, Value: value})
}

func (s *Surface) visible(selector string) error {
	if s.engine.Hidden[selector] {
		return fmt.Errorf("element not visible: %s", selector)
	}
	return nil
}

func (s *Surface) Click(ctx context.Context, selector string) error {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	s.record("click", selector, "")
	return s.visible(selector)
}

func (s *Surface) Fill(ctx context.Context, selector, value string) error {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	s.record("fill", selector, value)
	return s.visible(selector)
}

func (s *Surface) Press(ctx context.Context, key string) error {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	s.record("press", "", key)
	return nil
}

func (s *Surface) Text(ctx context.Context, selector string) (string, error) {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	s.record("text", selector, "")
	if err := s.visible(selector); err != nil {
		return "", err
	}
	return s.engine.Texts[selector], nil
}

func (s *Surface) IsVisible(ctx context.Context, selector string) (bool, error) {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	s.record("is_visible", selector, "")
	return !s.engine.Hidden[selector], nil
}

func (s *Surface) WaitVisible(ctx context.Context, selector string) error {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	s.record("wait_visible", selector, "")
	return s.visible(selector)
}

func (s *Surface) URL() string {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	return s.url
}

func (s *Surface) VideoPath() string {
	return s.video
}

// Calls returns a copy of the recorded actions.
func (s *Surface) Calls() []Action {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	return append([]Action(nil), s.Actions...)
}
