package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

type PlaywrightConfig struct {
	// Install downloads the selected browser before the driver starts.
	Install bool
	// BrowsersPath overrides where the driver looks for browser builds.
	BrowsersPath string
	Args         []string
}

// PlaywrightEngine starts a fresh driver per Launch, so two sessions never
// share a driver process. Browser installation happens at most once per
// kind for the engine's lifetime.
type PlaywrightEngine struct {
	cfg     PlaywrightConfig
	install func(kinds ...Kind) error

	mu        sync.Mutex
	installed map[Kind]error
}

func NewPlaywrightEngine(cfg PlaywrightConfig) *PlaywrightEngine {
	if cfg.BrowsersPath != "" {
		_ = os.Setenv("PLAYWRIGHT_BROWSERS_PATH", cfg.BrowsersPath)
	}
	return &PlaywrightEngine{
		cfg:       cfg,
		install:   Install,
		installed: make(map[Kind]error),
	}
}

// ensureInstalled serialises installs so parallel launches never write the
// browser cache at the same time. A failed install is remembered and
// returned to every later launch of that kind.
func (e *PlaywrightEngine) ensureInstalled(kind Kind) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err, ok := e.installed[kind]; ok {
		return err
	}
	err := e.install(kind)
	if err != nil {
		err = fmt.Errorf("install %s: %w", kind, err)
	}
	e.installed[kind] = err
	return err
}

// Install downloads the driver and the given browsers.
func Install(kinds ...Kind) error {
	browsers := make([]string, 0, len(kinds))
	for _, k := range kinds {
		browsers = append(browsers, string(k))
	}
	return playwright.Install(&playwright.RunOptions{Browsers: browsers})
}

func browserType(pw *playwright.Playwright, kind Kind) (playwright.BrowserType, error) {
	switch kind {
	case Chromium:
		return pw.Chromium, nil
	case Firefox:
		return pw.Firefox, nil
	case WebKit:
		return pw.WebKit, nil
	}
	return nil, &UnsupportedBrowserError{Value: string(kind)}
}

func (e *PlaywrightEngine) Launch(ctx context.Context, kind Kind, opts LaunchOptions) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if e.cfg.Install {
		if err := e.ensureInstalled(kind); err != nil {
			return nil, err
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	bt, err := browserType(pw, kind)
	if err != nil {
		_ = pw.Stop()
		return nil, err
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
	}
	if len(e.cfg.Args) > 0 {
		launchOpts.Args = e.cfg.Args
	}

	b, err := bt.Launch(launchOpts)
	if err != nil {
		_ = pw.Stop()
		return nil, err
	}

	return &playwrightHandle{pw: pw, browser: b}, nil
}

type playwrightHandle struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

func (h *playwrightHandle) NewContext(opts ContextOptions) (BrowserContext, error) {
	ctxOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	}
	if opts.RecordVideoDir != "" {
		ctxOpts.RecordVideo = &playwright.RecordVideo{
			Dir: opts.RecordVideoDir,
			Size: &playwright.Size{
				Width:  opts.Viewport.Width,
				Height: opts.Viewport.Height,
			},
		}
	}

	bctx, err := h.browser.NewContext(ctxOpts)
	if err != nil {
		return nil, err
	}

	if opts.Tracing {
		err := bctx.Tracing().Start(playwright.TracingStartOptions{
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
		})
		if err != nil {
			_ = bctx.Close()
			return nil, fmt.Errorf("start tracing: %w", err)
		}
	}

	return &playwrightContext{ctx: bctx, tracing: opts.Tracing}, nil
}

func (h *playwrightHandle) Close() error {
	var errs []error
	if h.browser != nil {
		if err := h.browser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if h.pw != nil {
		if err := h.pw.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type playwrightContext struct {
	ctx     playwright.BrowserContext
	tracing bool
}

func (c *playwrightContext) NewSurface(timeouts Timeouts) (Surface, error) {
	page, err := c.ctx.NewPage()
	if err != nil {
		return nil, err
	}

	if timeouts.Navigation <= 0 {
		timeouts.Navigation = 30 * time.Second
	}
	if timeouts.Action <= 0 {
		timeouts.Action = 10 * time.Second
	}
	page.SetDefaultNavigationTimeout(float64(timeouts.Navigation.Milliseconds()))
	page.SetDefaultTimeout(float64(timeouts.Action.Milliseconds()))

	return &playwrightSurface{page: page, timeouts: timeouts}, nil
}

func (c *playwrightContext) StopTracing(path string) error {
	if !c.tracing {
		return nil
	}
	c.tracing = false
	if path == "" {
		return c.ctx.Tracing().Stop()
	}
	return c.ctx.Tracing().Stop(path)
}

func (c *playwrightContext) Close() error {
	return c.ctx.Close()
}
