// Package scenario owns the per-scenario lifecycle: resolve configuration,
// launch a browser session, hand out page objects, and tear everything down
// with failure diagnostics.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"uiHarness/internal/browser"
	"uiHarness/internal/config"
	"uiHarness/internal/pages"
)

const (
	DefaultEnv      = "qa"
	FallbackBaseURL = "http://localhost"
)

type state int

const (
	stateUninitialized state = iota
	stateReady
	stateTornDown
)

func (s state) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateReady:
		return "ready"
	case stateTornDown:
		return "torn down"
	}
	return "unknown"
}

type options struct {
	env           string
	screenshotDir string
	manager       *browser.Manager
	engine        browser.Engine
	log           *zap.Logger
	now           func() time.Time
	strictBaseURL bool
}

type Option func(*options)

// WithEnv selects the environment. Empty keeps DefaultEnv.
func WithEnv(name string) Option {
	return func(o *options) {
		if name != "" {
			o.env = name
		}
	}
}

// WithScreenshotDir overrides {artifacts_dir}/screenshots.
func WithScreenshotDir(dir string) Option {
	return func(o *options) {
		o.screenshotDir = dir
	}
}

// WithManager shares a session manager. Managers hold no sessions, so this
// does not share browser state between scenarios.
func WithManager(m *browser.Manager) Option {
	return func(o *options) {
		o.manager = m
	}
}

// WithEngine builds a private manager over engine.
func WithEngine(e browser.Engine) Option {
	return func(o *options) {
		o.engine = e
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithStrictBaseURL fails construction when the environment is undefined or
// has no base_url, instead of falling back to FallbackBaseURL.
func WithStrictBaseURL() Option {
	return func(o *options) {
		o.strictBaseURL = true
	}
}

// Context is the state owned by exactly one scenario. It is not safe for
// concurrent use and must not be reused after Teardown.
type Context struct {
	env           string
	environment   config.Environment
	exec          *config.ExecutionConfig
	baseURL       string
	screenshotDir string

	manager *browser.Manager
	log     *zap.Logger
	now     func() time.Time

	state    state
	launched bool
	session  *browser.Session
	registry *pages.Registry
}

// New loads both configuration documents from p and resolves the
// environment and its base URL. No browser is started.
func New(p config.Provider, opts ...Option) (*Context, error) {
	o := options{
		env: DefaultEnv,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	log := o.log.Named("scenario")

	envCfg, err := p.EnvironmentConfig()
	if err != nil {
		return nil, err
	}
	exec, err := p.ExecutionConfig()
	if err != nil {
		return nil, err
	}

	environment, baseURL, err := resolveEnvironment(envCfg, o.env, o.strictBaseURL, log)
	if err != nil {
		return nil, err
	}

	manager := o.manager
	if manager == nil {
		engine := o.engine
		if engine == nil {
			engine = browser.NewPlaywrightEngine(browser.PlaywrightConfig{})
		}
		manager = browser.NewManager(engine, o.log)
	}

	screenshotDir := o.screenshotDir
	if screenshotDir == "" {
		screenshotDir = filepath.Join(exec.ArtifactsDir, "screenshots")
	}

	return &Context{
		env:           o.env,
		environment:   environment,
		exec:          exec,
		baseURL:       baseURL,
		screenshotDir: screenshotDir,
		manager:       manager,
		log:           log.With(zap.String("env", o.env)),
		now:           o.now,
	}, nil
}

// resolveEnvironment applies the base URL policy: an undefined environment
// or an empty base_url falls back to FallbackBaseURL with a warning unless
// strict is set.
func resolveEnvironment(cfg *config.EnvironmentConfig, name string, strict bool, log *zap.Logger) (config.Environment, string, error) {
	environment, err := cfg.Environment(name)
	if err != nil {
		if strict || !errors.Is(err, config.ErrUnknownEnvironment) {
			return config.Environment{}, "", err
		}
		log.Warn("environment not defined, using fallback base url",
			zap.String("env", name),
			zap.String("base_url", FallbackBaseURL),
		)
		environment = config.Environment{
			Timeouts: config.Timeouts{
				PageLoad: config.DefaultPageLoadTimeoutMs,
				Element:  config.DefaultElementTimeoutMs,
			},
		}
	}

	if environment.BaseURL != "" {
		return environment, environment.BaseURL, nil
	}
	if strict {
		return config.Environment{}, "", fmt.Errorf("%w for environment %q", config.ErrMissingBaseURL, name)
	}
	if err == nil {
		log.Warn("base_url missing, using fallback",
			zap.String("env", name),
			zap.String("base_url", FallbackBaseURL),
		)
	}
	return environment, FallbackBaseURL, nil
}

func (c *Context) Env() string {
	return c.env
}

func (c *Context) BaseURL() string {
	return c.baseURL
}

func (c *Context) Credentials() config.Credentials {
	return c.environment.Credentials
}

func (c *Context) Timeouts() config.Timeouts {
	return c.environment.Timeouts
}

func (c *Context) Execution() *config.ExecutionConfig {
	return c.exec
}

func (c *Context) ScreenshotDir() string {
	return c.screenshotDir
}

func (c *Context) Ready() bool {
	return c.state == stateReady
}

// Session returns the live session, or nil before Setup.
func (c *Context) Session() *browser.Session {
	return c.session
}

// Setup launches the session, navigates to baseURL (the resolved base URL
// when empty) and binds a fresh page registry to the surface. On a failed
// launch any partial session is kept for Teardown to capture and release.
func (c *Context) Setup(ctx context.Context, baseURL string) error {
	if c.launched || c.state != stateUninitialized {
		return fmt.Errorf("%w: setup called in state %s", ErrNotInitialized, c.state)
	}
	c.launched = true

	if baseURL == "" {
		baseURL = c.baseURL
	}

	session, err := c.manager.Launch(ctx, c.exec, baseURL, browser.WithTimeouts(c.environment.Timeouts))
	c.session = session
	if err != nil {
		return err
	}

	c.registry = pages.NewRegistry(session.Surface)
	c.state = stateReady
	c.log.Debug("scenario ready", zap.String("base_url", baseURL))
	return nil
}

// Page returns the scenario's page object of type P, constructing it on
// first use.
func Page[P any](c *Context, newPage pages.Constructor[P]) (P, error) {
	if c.state != stateReady {
		var zero P
		return zero, fmt.Errorf("%w: page requested in state %s", ErrNotInitialized, c.state)
	}
	return pages.Get(c.registry, newPage)
}
