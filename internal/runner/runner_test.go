package runner

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uiHarness/internal/browser"
	"uiHarness/internal/browser/browsertest"
	"uiHarness/internal/config"
	"uiHarness/internal/steps"
)

type recordingSink struct {
	mu       sync.Mutex
	started  []RunInfo
	finished []RunInfo
	results  []steps.Result
	launches int
}

func (s *recordingSink) SessionLaunchFailed(string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.launches++
}

func (s *recordingSink) ScenarioFinished(r steps.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

func (s *recordingSink) RunStarted(_ context.Context, info RunInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, info)
}

func (s *recordingSink) RunFinished(_ context.Context, info RunInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = append(s.finished, info)
}

func provider(t *testing.T, mutate func(*config.ExecutionConfig)) *config.Static {
	env := &config.EnvironmentConfig{
		DefaultEnv: "qa",
		Environments: map[string]config.Environment{
			"qa": {
				BaseURL:     "http://qa.example.com",
				Credentials: config.Credentials{Username: "Admin", Password: "admin123"},
			},
			"uat": {
				BaseURL:     "http://uat.example.com",
				Credentials: config.Credentials{Username: "Admin", Password: "uat"},
			},
		},
	}
	exec := &config.ExecutionConfig{
		Browser:         "chromium",
		Headless:        true,
		Viewport:        config.Viewport{Width: 1280, Height: 720},
		ParallelWorkers: 2,
		Trace:           config.ModeOff,
		Video:           config.ModeOff,
		ArtifactsDir:    t.TempDir(),
	}
	if mutate != nil {
		mutate(exec)
	}
	return config.NewStatic(env, exec)
}

func options(engine browser.Engine, sink Sink, paths ...string) Options {
	return Options{
		Paths:  paths,
		Format: "progress",
		Output: io.Discard,
		Engine: engine,
		Sink:   sink,
	}
}

func TestRunner_Passes(t *testing.T) {
	engine := browsertest.New()
	sink := &recordingSink{}

	r, err := New(provider(t, nil), options(engine, sink, filepath.Join("testdata", "features")))
	require.NoError(t, err)

	info := r.Run(context.Background())
	assert.Equal(t, ExitPassed, info.ExitCode)
	assert.Equal(t, 1, info.Attempts)
	assert.Equal(t, "qa", info.Env)
	assert.Equal(t, "chromium", info.Browser)

	require.Len(t, sink.started, 1)
	require.Len(t, sink.finished, 1)
	assert.Equal(t, info.ID, sink.finished[0].ID)
	assert.Len(t, sink.results, 2)
	assert.Len(t, engine.Handles, 2)
}

func TestRunner_RetriesFailingSuite(t *testing.T) {
	engine := browsertest.New()
	engine.Hidden[`//div[text()="john123"]`] = true
	sink := &recordingSink{}

	r, err := New(provider(t, func(e *config.ExecutionConfig) { e.Retries = 2 }),
		options(engine, sink, filepath.Join("testdata", "features", "add_user.feature")))
	require.NoError(t, err)

	info := r.Run(context.Background())
	assert.Equal(t, ExitFailed, info.ExitCode)
	assert.Equal(t, 3, info.Attempts)
	assert.Len(t, engine.Handles, 3, "each attempt gets a fresh session")
	for _, h := range engine.Handles {
		assert.Equal(t, 1, h.CloseCalls)
	}
	require.Len(t, sink.results, 3)
	for _, res := range sink.results {
		assert.Equal(t, steps.StatusFailed, res.Status)
	}
}

func TestRunner_SelectedEnvironment(t *testing.T) {
	engine := browsertest.New()
	opts := options(engine, nil, filepath.Join("testdata", "features", "add_user.feature"))
	opts.Env = "UAT"

	r, err := New(provider(t, nil), opts)
	require.NoError(t, err)
	info := r.Run(context.Background())
	require.Equal(t, ExitPassed, info.ExitCode)
	assert.Equal(t, []string{"http://uat.example.com"}, engine.Last().Surface().Navigations)
}

func TestRunner_Overrides(t *testing.T) {
	opts := options(browsertest.New(), nil)
	opts.Headed = true
	opts.Workers = 6
	p := provider(t, nil)

	r, err := New(p, opts)
	require.NoError(t, err)
	assert.False(t, r.Execution().Headless)
	assert.Equal(t, 6, r.Execution().ParallelWorkers)

	base, _ := p.ExecutionConfig()
	assert.True(t, base.Headless, "overrides must not leak into the shared config")
}

func TestRunner_ConfigurationErrors(t *testing.T) {
	t.Run("unknown environment", func(t *testing.T) {
		opts := options(browsertest.New(), nil)
		opts.Env = "staging"
		_, err := New(provider(t, nil), opts)
		assert.ErrorIs(t, err, config.ErrUnknownEnvironment)
		assert.Equal(t, ExitConfigError, ExitCode(err))
	})

	t.Run("unsupported browser", func(t *testing.T) {
		engine := browsertest.New()
		_, err := New(provider(t, func(e *config.ExecutionConfig) { e.Browser = "edge" }), options(engine, nil))
		assert.ErrorIs(t, err, browser.ErrUnsupportedBrowser)
		assert.Equal(t, ExitConfigError, ExitCode(err))
		assert.Empty(t, engine.Launches)
	})

	t.Run("missing documents", func(t *testing.T) {
		_, err := New(config.NewReader(t.TempDir()), options(browsertest.New(), nil))
		assert.ErrorIs(t, err, config.ErrConfigurationNotFound)
		assert.Equal(t, ExitConfigError, ExitCode(err))
	})
}

func TestRunner_CancelledBeforeStart(t *testing.T) {
	engine := browsertest.New()
	sink := &recordingSink{}
	r, err := New(provider(t, nil), options(engine, sink, filepath.Join("testdata", "features")))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	info := r.Run(ctx)

	assert.Equal(t, ExitFailed, info.ExitCode)
	assert.Equal(t, 0, info.Attempts)
	assert.Empty(t, engine.Launches)
	assert.Len(t, sink.finished, 1)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitPassed},
		{name: "not found", err: &config.NotFoundError{Path: "x"}, want: ExitConfigError},
		{name: "invalid", err: config.ErrInvalidExecutionConfig, want: ExitConfigError},
		{name: "colliding environments", err: config.ErrInvalidEnvironmentConfig, want: ExitConfigError},
		{name: "other", err: errors.New("boom"), want: ExitFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
