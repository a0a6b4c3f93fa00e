package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"uiHarness/internal/browser"
	"uiHarness/internal/cli/ui"
	"uiHarness/internal/config"
	"uiHarness/internal/database"
	"uiHarness/internal/logger"
	"uiHarness/internal/metrics"
	"uiHarness/internal/runner"
	"uiHarness/internal/sanitizer"
	"uiHarness/internal/scenario"
)

type RunFlags struct {
	Env     string
	Headed  bool
	Tags    string
	Workers int
	Format  string
	Paths   []string
}

// RunHandler runs the feature suite.
type RunHandler struct {
	cfg    *config.Cfg
	log    *logger.Zap
	db     *database.DB
	engine browser.Engine
	out    io.Writer
}

// NewRunHandler takes a nil db when no results database is configured.
func NewRunHandler(cfg *config.Cfg, log *logger.Zap, db *database.DB, out io.Writer) *RunHandler {
	return &RunHandler{
		cfg: cfg,
		log: log,
		db:  db,
		engine: browser.NewPlaywrightEngine(browser.PlaywrightConfig{
			Install:      cfg.Browser.Install,
			BrowsersPath: cfg.Browser.BrowsersPath,
		}),
		out: out,
	}
}

// WithEngine swaps the browser engine.
func (h *RunHandler) WithEngine(e browser.Engine) *RunHandler {
	h.engine = e
	return h
}

// Run returns the process exit code.
func (h *RunHandler) Run(ctx context.Context, flags RunFlags) int {
	if flags.Env == "" {
		flags.Env = h.cfg.Harness.Env
	}
	if len(flags.Paths) == 0 {
		flags.Paths = []string{h.cfg.Harness.FeaturesPath}
	}
	if flags.Workers == 0 {
		flags.Workers = h.cfg.Harness.Workers
	}

	snap, err := config.Snapshot(config.NewReader(h.cfg.Harness.ConfigDir))
	if err != nil {
		return h.fail(err)
	}
	exec, _ := snap.ExecutionConfig()
	envCfg, _ := snap.EnvironmentConfig()

	log := h.log
	fileLog, err := logger.New(h.cfg.Logger.Env, h.cfg.Logger.Level,
		logger.WithFile(filepath.Join(exec.ArtifactsDir, "harness.log")))
	if err != nil {
		h.log.Warn("file logger unavailable", zap.Error(err))
	} else {
		log = fileLog
		defer fileLog.Sync()
	}

	sinks := []runner.Sink{runner.MetricsSink(metrics.New(), exec.ArtifactsDir, log.Logger)}
	if h.db != nil {
		redact := sanitizer.New(secrets(h.cfg, envCfg)...)
		sinks = append(sinks, runner.HistorySink(database.NewRunRepository(h.db.DB), redact, log.Logger))
	}

	r, err := runner.New(snap, runner.Options{
		Env:     flags.Env,
		Headed:  flags.Headed,
		Tags:    flags.Tags,
		Paths:   flags.Paths,
		Workers: flags.Workers,
		Format:  flags.Format,
		Output:  h.out,
		Engine:  h.engine,
		Sink:    runner.Sinks(sinks...),
		Logger:  log.Logger,
	})
	if err != nil {
		return h.fail(err)
	}

	eff := r.Execution()
	env := flags.Env
	if env == "" {
		env = scenario.DefaultEnv
	}
	ui.PrintRunHeader(h.out, env, eff.Browser, eff.Headless, eff.ParallelWorkers, eff.Retries)

	info := r.Run(ctx)

	icon, color, text := ui.FormatStatus(info.Status())
	fmt.Fprintf(h.out, "\n"+color+icon+" run %s"+ui.ColorReset+" after %d attempt(s) in %s\n",
		text, info.Attempts, ui.FormatDuration(info.Finished.Sub(info.Started)))
	fmt.Fprintf(h.out, ui.ColorGray+"run id %s, artifacts in %s"+ui.ColorReset+"\n", info.ID, eff.ArtifactsDir)
	return info.ExitCode
}

func (h *RunHandler) fail(err error) int {
	msg := sanitizer.New(h.cfg.Database.Password).SanitizeError(err)
	h.log.Error("run aborted", zap.String("error", msg))
	fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" "+msg+ui.ColorReset)
	return runner.ExitCode(err)
}

// secrets lists every configured password so stored error text never
// carries one.
func secrets(cfg *config.Cfg, env *config.EnvironmentConfig) []string {
	out := []string{cfg.Database.Password}
	if env == nil {
		return out
	}
	for _, e := range env.Environments {
		out = append(out, e.Credentials.Password)
	}
	return out
}
