package scenario

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"uiHarness/internal/browser"
	"uiHarness/internal/browser/browsertest"
	"uiHarness/internal/config"
	"uiHarness/internal/pages"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedTime = time.Date(2025, 1, 15, 9, 30, 5, 0, time.UTC)

func envConfig() *config.EnvironmentConfig {
	return &config.EnvironmentConfig{
		DefaultEnv: "uat",
		Environments: map[string]config.Environment{
			"qa": {
				BaseURL:     "http://qa.example.com",
				Credentials: config.Credentials{Username: "Admin", Password: "admin123"},
				Timeouts:    config.Timeouts{PageLoad: 20000, Element: 4000},
			},
			"uat":  {BaseURL: "http://uat.example.com"},
			"prod": {},
		},
	}
}

func execConfig(t *testing.T) *config.ExecutionConfig {
	return &config.ExecutionConfig{
		Browser:         "chromium",
		Headless:        true,
		Viewport:        config.Viewport{Width: 1280, Height: 720},
		ParallelWorkers: 1,
		Trace:           config.ModeOff,
		Video:           config.ModeOff,
		ArtifactsDir:    t.TempDir(),
	}
}

func newContext(t *testing.T, engine *browsertest.Engine, exec *config.ExecutionConfig, opts ...Option) *Context {
	t.Helper()
	opts = append([]Option{WithEngine(engine), WithClock(func() time.Time { return fixedTime })}, opts...)
	c, err := New(config.NewStatic(envConfig(), exec), opts...)
	require.NoError(t, err)
	return c
}

func TestContext_QAScenarioPasses(t *testing.T) {
	engine := browsertest.New()
	exec := execConfig(t)
	c := newContext(t, engine, exec, WithEnv("qa"))

	assert.Equal(t, "qa", c.Env())
	assert.Equal(t, "http://qa.example.com", c.BaseURL())
	assert.Equal(t, "Admin", c.Credentials().Username)

	require.NoError(t, c.Setup(context.Background(), ""))
	assert.True(t, c.Ready())

	s := engine.Last().Surface()
	assert.Equal(t, []string{"http://qa.example.com"}, s.Navigations)
	assert.Equal(t, browser.Timeouts{Navigation: 20 * time.Second, Action: 4 * time.Second}, engine.Last().Contexts[0].Timeouts)

	login, err := Page(c, pages.NewLoginPage)
	require.NoError(t, err)
	assert.Same(t, s, login.Surface())

	arts := c.Teardown(false, "Add user")
	assert.Empty(t, arts.Screenshot)
	assert.Empty(t, s.Screenshots)
	assert.Equal(t, 1, engine.Last().CloseCalls)
	assert.True(t, c.Session().Closed())
	assert.NoDirExists(t, c.ScreenshotDir())
}

func TestContext_SetupExplicitBaseURL(t *testing.T) {
	engine := browsertest.New()
	c := newContext(t, engine, execConfig(t))

	require.NoError(t, c.Setup(context.Background(), "http://override.local/login"))
	assert.Equal(t, []string{"http://override.local/login"}, engine.Last().Surface().Navigations)
	c.Teardown(false, "x")
}

func TestContext_DefaultEnvironment(t *testing.T) {
	c := newContext(t, browsertest.New(), execConfig(t))
	assert.Equal(t, DefaultEnv, c.Env())
	assert.Equal(t, "http://qa.example.com", c.BaseURL())
}

func TestContext_BaseURLFallback(t *testing.T) {
	t.Run("environment absent", func(t *testing.T) {
		env := &config.EnvironmentConfig{Environments: map[string]config.Environment{}}
		c, err := New(config.NewStatic(env, execConfig(t)), WithEngine(browsertest.New()))
		require.NoError(t, err)
		assert.Equal(t, "qa", c.Env())
		assert.Equal(t, FallbackBaseURL, c.BaseURL())
		assert.Equal(t, config.DefaultPageLoadTimeoutMs, c.Timeouts().PageLoad)
	})

	t.Run("base_url empty", func(t *testing.T) {
		c := newContext(t, browsertest.New(), execConfig(t), WithEnv("prod"))
		assert.Equal(t, FallbackBaseURL, c.BaseURL())
	})

	t.Run("strict rejects absent environment", func(t *testing.T) {
		env := &config.EnvironmentConfig{Environments: map[string]config.Environment{}}
		_, err := New(config.NewStatic(env, execConfig(t)), WithEngine(browsertest.New()), WithStrictBaseURL())
		assert.ErrorIs(t, err, config.ErrUnknownEnvironment)
	})

	t.Run("strict rejects empty base_url", func(t *testing.T) {
		_, err := New(config.NewStatic(envConfig(), execConfig(t)),
			WithEngine(browsertest.New()), WithEnv("prod"), WithStrictBaseURL())
		assert.ErrorIs(t, err, config.ErrMissingBaseURL)
	})
}

func TestNew_ConfigurationNotFound(t *testing.T) {
	_, err := New(config.NewReader(t.TempDir()), WithEngine(browsertest.New()))
	assert.ErrorIs(t, err, config.ErrConfigurationNotFound)
}

func TestContext_NotInitialized(t *testing.T) {
	engine := browsertest.New()
	c := newContext(t, engine, execConfig(t))

	_, err := Page(c, pages.NewLoginPage)
	assert.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, c.Setup(context.Background(), ""))
	assert.ErrorIs(t, c.Setup(context.Background(), ""), ErrNotInitialized)
	assert.Len(t, engine.Launches, 1)

	c.Teardown(false, "x")
	_, err = Page(c, pages.NewLoginPage)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestContext_PageIdentity(t *testing.T) {
	c := newContext(t, browsertest.New(), execConfig(t))
	require.NoError(t, c.Setup(context.Background(), ""))
	defer c.Teardown(false, "x")

	a, err := Page(c, pages.NewUsersPage)
	require.NoError(t, err)
	b, err := Page(c, pages.NewUsersPage)
	require.NoError(t, err)
	assert.Same(t, a, b)

	d, err := Page(c, pages.NewDashboardPage)
	require.NoError(t, err)
	assert.NotNil(t, d)
}

func TestContext_FailedTeardownCapturesOnce(t *testing.T) {
	engine := browsertest.New()
	c := newContext(t, engine, execConfig(t))
	require.NoError(t, c.Setup(context.Background(), ""))

	arts := c.Teardown(true, "Assign leave: Joy Smith")
	want := filepath.Join(c.ScreenshotDir(), "Assign_leave_Joy_Smith_20250115_093005.png")
	assert.Equal(t, want, arts.Screenshot)
	assert.NoError(t, arts.ScreenshotErr)
	assert.FileExists(t, want)
	assert.Equal(t, []string{want}, engine.Last().Surface().Screenshots)
	assert.Equal(t, 1, engine.Last().CloseCalls)

	again := c.Teardown(true, "Assign leave: Joy Smith")
	assert.Empty(t, again.Screenshot)
	assert.Len(t, engine.Last().Surface().Screenshots, 1)
	assert.Equal(t, 1, engine.Last().CloseCalls)
}

func TestContext_ScreenshotFailureStillReleases(t *testing.T) {
	engine := browsertest.New()
	cause := errors.New("target closed")
	engine.ScreenshotErr = cause
	c := newContext(t, engine, execConfig(t))
	require.NoError(t, c.Setup(context.Background(), ""))

	arts := c.Teardown(true, "broken")
	assert.ErrorIs(t, arts.ScreenshotErr, ErrScreenshotCaptureFailed)
	assert.ErrorIs(t, arts.ScreenshotErr, cause)
	assert.Empty(t, arts.Screenshot)
	assert.Len(t, engine.Last().Surface().Screenshots, 1)
	assert.Equal(t, 1, engine.Last().CloseCalls)
}

func TestContext_ReleaseFailureIsNotFatal(t *testing.T) {
	engine := browsertest.New()
	c := newContext(t, engine, execConfig(t))
	require.NoError(t, c.Setup(context.Background(), ""))

	engine.CloseErr = errors.New("already gone")
	assert.NotPanics(t, func() { c.Teardown(false, "x") })
	assert.True(t, c.Session().Closed())
}

type panicEngine struct{ *browsertest.Engine }

func (e panicEngine) Launch(ctx context.Context, kind browser.Kind, opts browser.LaunchOptions) (browser.Handle, error) {
	h, err := e.Engine.Launch(ctx, kind, opts)
	if err != nil {
		return nil, err
	}
	return panicHandle{h}, nil
}

type panicHandle struct{ browser.Handle }

func (h panicHandle) NewContext(opts browser.ContextOptions) (browser.BrowserContext, error) {
	c, err := h.Handle.NewContext(opts)
	if err != nil {
		return nil, err
	}
	return panicContext{c}, nil
}

type panicContext struct{ browser.BrowserContext }

func (c panicContext) NewSurface(t browser.Timeouts) (browser.Surface, error) {
	s, err := c.BrowserContext.NewSurface(t)
	if err != nil {
		return nil, err
	}
	return panicSurface{s}, nil
}

type panicSurface struct{ browser.Surface }

func (panicSurface) Screenshot(string) error {
	panic("renderer crashed")
}

func TestContext_ScreenshotPanicStillReleases(t *testing.T) {
	engine := browsertest.New()
	c := newContext(t, engine, execConfig(t), WithEngine(panicEngine{engine}))
	require.NoError(t, c.Setup(context.Background(), ""))

	assert.Panics(t, func() { c.Teardown(true, "x") })
	assert.Equal(t, 1, engine.Last().CloseCalls)
	assert.True(t, c.Session().Closed())
}

func TestContext_TeardownWithoutSetup(t *testing.T) {
	engine := browsertest.New()
	c := newContext(t, engine, execConfig(t))

	arts := c.Teardown(true, "never started")
	assert.Equal(t, Artifacts{}, arts)
	assert.Empty(t, engine.Launches)
}

func TestContext_TeardownAfterFailedSetup(t *testing.T) {
	t.Run("navigation failure", func(t *testing.T) {
		engine := browsertest.New()
		engine.NavigateErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
		c := newContext(t, engine, execConfig(t))

		require.Error(t, c.Setup(context.Background(), ""))
		assert.False(t, c.Ready())
		_, err := Page(c, pages.NewLoginPage)
		assert.ErrorIs(t, err, ErrNotInitialized)

		arts := c.Teardown(true, "nav")
		assert.NotEmpty(t, arts.Screenshot)
		assert.Equal(t, 1, engine.Last().CloseCalls)
	})

	t.Run("unsupported browser", func(t *testing.T) {
		engine := browsertest.New()
		exec := execConfig(t)
		exec.Browser = "opera"
		c := newContext(t, engine, exec)

		err := c.Setup(context.Background(), "")
		assert.ErrorIs(t, err, browser.ErrUnsupportedBrowser)
		assert.Equal(t, Artifacts{}, c.Teardown(true, "bad"))
		assert.Empty(t, engine.Launches)
	})
}

func TestContext_TraceModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     config.ArtifactMode
		failed   bool
		wantKept bool
	}{
		{name: "on keeps passing", mode: config.ModeOn, failed: false, wantKept: true},
		{name: "on-failure keeps failing", mode: config.ModeOnFailure, failed: true, wantKept: true},
		{name: "on-failure drops passing", mode: config.ModeOnFailure, failed: false, wantKept: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := browsertest.New()
			exec := execConfig(t)
			exec.Trace = tt.mode
			c := newContext(t, engine, exec)
			require.NoError(t, c.Setup(context.Background(), ""))

			arts := c.Teardown(tt.failed, "trace me")
			ctx := engine.Last().Contexts[0]
			require.Len(t, ctx.TracePaths, 1)
			if tt.wantKept {
				assert.Equal(t, filepath.Join(exec.ArtifactsDir, "traces", "trace_me_20250115_093005.zip"), arts.Trace)
				assert.FileExists(t, arts.Trace)
			} else {
				assert.Empty(t, arts.Trace)
				assert.Equal(t, "", ctx.TracePaths[0])
			}
		})
	}
}

func TestContext_VideoModes(t *testing.T) {
	t.Run("on-failure deletes passing video", func(t *testing.T) {
		engine := browsertest.New()
		exec := execConfig(t)
		exec.Video = config.ModeOnFailure
		c := newContext(t, engine, exec)
		require.NoError(t, c.Setup(context.Background(), ""))
		video := c.Session().VideoPath()
		require.FileExists(t, video)

		arts := c.Teardown(false, "v")
		assert.Empty(t, arts.Video)
		_, err := os.Stat(video)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("on-failure keeps failing video", func(t *testing.T) {
		engine := browsertest.New()
		exec := execConfig(t)
		exec.Video = config.ModeOnFailure
		c := newContext(t, engine, exec)
		require.NoError(t, c.Setup(context.Background(), ""))

		arts := c.Teardown(true, "v")
		assert.FileExists(t, arts.Video)
	})
}

func TestContext_IsolatedPerScenario(t *testing.T) {
	engine := browsertest.New()
	exec := execConfig(t)
	a := newContext(t, engine, exec)
	b := newContext(t, engine, exec)

	require.NoError(t, a.Setup(context.Background(), ""))
	require.NoError(t, b.Setup(context.Background(), ""))

	pa, err := Page(a, pages.NewLoginPage)
	require.NoError(t, err)
	pb, err := Page(b, pages.NewLoginPage)
	require.NoError(t, err)
	assert.NotSame(t, pa, pb)
	assert.NotSame(t, a.Session(), b.Session())

	a.Teardown(false, "a")
	assert.False(t, b.Session().Closed())
	b.Teardown(false, "b")
	assert.Len(t, engine.Handles, 2)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Add_a_new_user", FileName("Add a new user"))
	assert.Equal(t, "leave_v1.2-final", FileName("leave/v1.2-final"))
	assert.Equal(t, "scenario", FileName(""))
	assert.Equal(t, "scenario", FileName("!!!"))
}
