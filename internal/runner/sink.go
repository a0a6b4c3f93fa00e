package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"uiHarness/internal/database"
	"uiHarness/internal/sanitizer"
	"uiHarness/internal/steps"
)

// RunInfo describes one suite run. Finished, Attempts and ExitCode are set
// once the run ends.
type RunInfo struct {
	ID       uuid.UUID
	Env      string
	Browser  string
	Started  time.Time
	Finished time.Time
	Attempts int
	ExitCode int
}

func (i RunInfo) Status() string {
	if i.ExitCode == ExitPassed {
		return database.StatusPassed
	}
	return database.StatusFailed
}

// Sink receives run boundaries in addition to scenario outcomes.
type Sink interface {
	steps.Recorder
	RunStarted(ctx context.Context, info RunInfo)
	RunFinished(ctx context.Context, info RunInfo)
}

type sinks []Sink

// Sinks fans out to every non-nil sink.
func Sinks(ss ...Sink) Sink {
	out := make(sinks, 0, len(ss))
	for _, s := range ss {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (s sinks) SessionLaunchFailed(name string, err error) {
	for _, x := range s {
		x.SessionLaunchFailed(name, err)
	}
}

func (s sinks) ScenarioFinished(res steps.Result) {
	for _, x := range s {
		x.ScenarioFinished(res)
	}
}

func (s sinks) RunStarted(ctx context.Context, info RunInfo) {
	for _, x := range s {
		x.RunStarted(ctx, info)
	}
}

func (s sinks) RunFinished(ctx context.Context, info RunInfo) {
	for _, x := range s {
		x.RunFinished(ctx, info)
	}
}

// MetricsRecorder is the part of metrics.Collector the runner drives.
type MetricsRecorder interface {
	ObserveScenario(status string, d time.Duration)
	ScreenshotFailed()
	LaunchFailed()
	WriteFile(dir string) (string, error)
}

type metricsSink struct {
	m   MetricsRecorder
	dir string
	log *zap.Logger
}

// MetricsSink counts outcomes and writes the textfile into dir when the run
// finishes.
func MetricsSink(m MetricsRecorder, dir string, log *zap.Logger) Sink {
	return &metricsSink{m: m, dir: dir, log: log}
}

func (s *metricsSink) SessionLaunchFailed(string, error) {
	s.m.LaunchFailed()
}

func (s *metricsSink) ScenarioFinished(res steps.Result) {
	s.m.ObserveScenario(string(res.Status), res.Duration)
	if res.Artifacts.ScreenshotErr != nil {
		s.m.ScreenshotFailed()
	}
}

func (s *metricsSink) RunStarted(context.Context, RunInfo) {}

func (s *metricsSink) RunFinished(context.Context, RunInfo) {
	path, err := s.m.WriteFile(s.dir)
	if err != nil {
		s.log.Warn("write metrics", zap.Error(err))
		return
	}
	s.log.Debug("metrics written", zap.String("path", path))
}

// HistoryStore is the part of database.RunRepository the runner drives.
type HistoryStore interface {
	CreateRun(ctx context.Context, run *database.Run) error
	FinishRun(ctx context.Context, id uuid.UUID, status string, attempts, exitCode int, finished time.Time) error
	AddScenarioResult(ctx context.Context, res *database.ScenarioResult) error
}

const historyWriteTimeout = 5 * time.Second

var errNoRun = errors.New("run was not recorded")

type historySink struct {
	store  HistoryStore
	redact *sanitizer.DataSanitizer
	log    *zap.Logger

	mu    sync.Mutex
	runID uuid.UUID
	ok    bool
}

// HistorySink persists the run and every scenario result. Error text is
// passed through redact before it is stored. Storage errors are logged and
// never fail the run.
func HistorySink(store HistoryStore, redact *sanitizer.DataSanitizer, log *zap.Logger) Sink {
	return &historySink{store: store, redact: redact, log: log}
}

func (s *historySink) current() (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ok {
		return uuid.Nil, errNoRun
	}
	return s.runID, nil
}

func (s *historySink) RunStarted(ctx context.Context, info RunInfo) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyWriteTimeout)
	defer cancel()

	err := s.store.CreateRun(ctx, &database.Run{
		ID:        info.ID,
		Env:       info.Env,
		Browser:   info.Browser,
		Status:    database.StatusRunning,
		StartedAt: info.Started,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.Warn("record run", zap.Error(err))
		s.ok = false
		return
	}
	s.runID, s.ok = info.ID, true
}

func (s *historySink) SessionLaunchFailed(string, error) {}

func (s *historySink) ScenarioFinished(res steps.Result) {
	runID, err := s.current()
	if err != nil {
		return
	}

	row := &database.ScenarioResult{
		RunID:          runID,
		Name:           res.Scenario,
		Status:         string(res.Status),
		DurationMs:     res.Duration.Milliseconds(),
		ScreenshotPath: res.Artifacts.Screenshot,
		TracePath:      res.Artifacts.Trace,
		VideoPath:      res.Artifacts.Video,
		Error:          s.redact.SanitizeError(res.Err),
	}

	ctx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
	defer cancel()
	if err := s.store.AddScenarioResult(ctx, row); err != nil {
		s.log.Warn("record scenario result", zap.String("scenario", res.Scenario), zap.Error(err))
	}
}

func (s *historySink) RunFinished(ctx context.Context, info RunInfo) {
	runID, err := s.current()
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyWriteTimeout)
	defer cancel()
	if err := s.store.FinishRun(ctx, runID, info.Status(), info.Attempts, info.ExitCode, info.Finished); err != nil {
		s.log.Warn("finish run", zap.Error(err))
	}
}
