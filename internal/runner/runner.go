// Package runner executes the feature suite with the configured
// parallelism and retries and reports an exit status.
package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"uiHarness/internal/browser"
	"uiHarness/internal/config"
	"uiHarness/internal/scenario"
	"uiHarness/internal/steps"
)

const (
	ExitPassed      = 0
	ExitFailed      = 1
	ExitConfigError = 2
)

// godog reports unusable options and unreadable features with this status.
const godogOptionError = 2

type Options struct {
	Env    string
	Headed bool
	Tags   string
	Paths  []string
	// Workers overrides parallel_workers when positive.
	Workers int
	// Format is a godog formatter name; default "pretty".
	Format string
	Output io.Writer

	Engine browser.Engine
	Sink   Sink
	Logger *zap.Logger
	Now    func() time.Time
}

type Runner struct {
	provider *config.Static
	exec     *config.ExecutionConfig
	env      string
	manager  *browser.Manager
	sink     Sink
	opts     Options
	log      *zap.Logger
}

// New loads configuration once and checks everything that would make every
// scenario fail the same way: missing documents, an unknown explicit
// environment, or an unsupported browser.
func New(p config.Provider, opts Options) (*Runner, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Format == "" {
		opts.Format = "pretty"
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Sink == nil {
		opts.Sink = Sinks()
	}

	snap, err := config.Snapshot(p)
	if err != nil {
		return nil, err
	}
	envCfg, _ := snap.EnvironmentConfig()
	base, _ := snap.ExecutionConfig()

	exec := *base
	if opts.Headed {
		exec.Headless = false
	}
	if opts.Workers > 0 {
		exec.ParallelWorkers = opts.Workers
	}
	if _, err := browser.ParseKind(exec.Browser); err != nil {
		return nil, err
	}

	env := opts.Env
	if env != "" {
		if _, err := envCfg.Environment(env); err != nil {
			return nil, err
		}
	} else {
		env = scenario.DefaultEnv
	}

	engine := opts.Engine
	if engine == nil {
		engine = browser.NewPlaywrightEngine(browser.PlaywrightConfig{})
	}

	return &Runner{
		provider: config.NewStatic(envCfg, &exec),
		exec:     &exec,
		env:      env,
		manager:  browser.NewManager(engine, opts.Logger),
		sink:     opts.Sink,
		opts:     opts,
		log:      opts.Logger.Named("runner"),
	}, nil
}

func (r *Runner) Execution() *config.ExecutionConfig {
	return r.exec
}

// Run executes the suite, re-running it up to retries extra times while it
// fails. Every attempt builds fresh scenario contexts.
func (r *Runner) Run(ctx context.Context) RunInfo {
	info := RunInfo{
		ID:      uuid.New(),
		Env:     r.env,
		Browser: r.exec.Browser,
		Started: r.opts.Now(),
	}
	log := r.log.With(zap.String("run_id", info.ID.String()))
	log.Info("run started",
		zap.String("env", info.Env),
		zap.String("browser", info.Browser),
		zap.Int("workers", r.exec.ParallelWorkers),
		zap.Int("retries", r.exec.Retries),
	)
	r.sink.RunStarted(ctx, info)

	info.ExitCode = ExitFailed
	for attempt := 1; attempt <= r.exec.Retries+1; attempt++ {
		if err := ctx.Err(); err != nil {
			log.Warn("run cancelled", zap.Error(err))
			break
		}
		info.Attempts = attempt

		status := r.runOnce(ctx, attempt)
		if status == ExitPassed {
			info.ExitCode = ExitPassed
			break
		}
		if status == godogOptionError {
			info.ExitCode = ExitConfigError
			break
		}
		if attempt <= r.exec.Retries {
			log.Warn("suite failed, retrying", zap.Int("attempt", attempt))
		}
	}

	info.Finished = r.opts.Now()
	r.sink.RunFinished(ctx, info)

	log.Info("run finished",
		zap.Int("exit_code", info.ExitCode),
		zap.Int("attempts", info.Attempts),
		zap.Duration("duration", info.Finished.Sub(info.Started)),
	)
	return info
}

func (r *Runner) runOnce(ctx context.Context, attempt int) int {
	suite := steps.NewSuite(r.provider,
		steps.WithRecorder(r.sink),
		steps.WithLogger(r.opts.Logger.With(zap.Int("attempt", attempt))),
		steps.WithClock(r.opts.Now),
		steps.WithScenarioOptions(
			scenario.WithEnv(r.env),
			scenario.WithManager(r.manager),
		),
	)

	return godog.TestSuite{
		Name:                "uiharness",
		ScenarioInitializer: suite.InitializeScenario,
		Options: &godog.Options{
			Format:         r.opts.Format,
			Output:         r.opts.Output,
			Paths:          r.opts.Paths,
			Tags:           r.opts.Tags,
			Concurrency:    r.exec.ParallelWorkers,
			Strict:         true,
			DefaultContext: ctx,
		},
	}.Run()
}

// ExitCode maps a setup error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitPassed
	case errors.Is(err, config.ErrConfigurationNotFound),
		errors.Is(err, config.ErrUnknownEnvironment),
		errors.Is(err, config.ErrInvalidExecutionConfig),
		errors.Is(err, config.ErrInvalidEnvironmentConfig),
		errors.Is(err, config.ErrMissingBaseURL),
		errors.Is(err, browser.ErrUnsupportedBrowser):
		return ExitConfigError
	}
	return ExitFailed
}
