// Package steps binds feature-file steps to page objects. Every scenario
// gets its own scenario.Context, created in a Before hook and torn down in
// an After hook, carried between steps on the step context.
package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"go.uber.org/zap"

	"uiHarness/internal/config"
	"uiHarness/internal/pages"
	"uiHarness/internal/scenario"
)

var errNoScenario = errors.New("no scenario context on step context")

type worldKey struct{}

// world is the per-scenario state shared between steps.
type world struct {
	sc       *scenario.Context
	started  time.Time
	user     pages.NewUser
	employee string
}

func worldFrom(ctx context.Context) (*world, error) {
	w, ok := ctx.Value(worldKey{}).(*world)
	if !ok || w.sc == nil {
		return nil, errNoScenario
	}
	return w, nil
}

type Suite struct {
	provider     config.Provider
	scenarioOpts []scenario.Option
	recorder     Recorder
	log          *zap.Logger
	now          func() time.Time
}

type Option func(*Suite)

func WithRecorder(r Recorder) Option {
	return func(s *Suite) {
		s.recorder = r
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Suite) {
		s.log = log
	}
}

// WithScenarioOptions is applied to every scenario.Context the suite builds.
func WithScenarioOptions(opts ...scenario.Option) Option {
	return func(s *Suite) {
		s.scenarioOpts = append(s.scenarioOpts, opts...)
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Suite) {
		s.now = now
	}
}

// NewSuite shares p between scenarios, so p should be read-only
// (config.Static) when scenarios run concurrently.
func NewSuite(p config.Provider, opts ...Option) *Suite {
	s := &Suite{
		provider: p,
		recorder: nopRecorder{},
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InitializeScenario is a godog ScenarioInitializer.
func (s *Suite) InitializeScenario(sc *godog.ScenarioContext) {
	sc.Before(s.before)
	sc.After(s.after)
	registerSteps(sc)
}

func (s *Suite) before(ctx context.Context, gs *godog.Scenario) (context.Context, error) {
	log := s.log.With(zap.String("scenario", gs.Name))
	log.Info("scenario started")

	opts := append([]scenario.Option{scenario.WithLogger(s.log)}, s.scenarioOpts...)
	sc, err := scenario.New(s.provider, opts...)
	if err != nil {
		return ctx, fmt.Errorf("build scenario context: %w", err)
	}

	w := &world{sc: sc, started: s.now()}
	ctx = context.WithValue(ctx, worldKey{}, w)

	if err := sc.Setup(ctx, ""); err != nil {
		s.recorder.SessionLaunchFailed(gs.Name, err)
		return ctx, fmt.Errorf("setup: %w", err)
	}
	return ctx, nil
}

func (s *Suite) after(ctx context.Context, gs *godog.Scenario, stepErr error) (context.Context, error) {
	w, err := worldFrom(ctx)
	if err != nil {
		// Before failed to build a context, so nothing was launched.
		s.recorder.ScenarioFinished(Result{Scenario: gs.Name, Status: StatusFailed, Err: stepErr, Started: s.now()})
		return ctx, nil
	}

	failed := stepErr != nil
	arts := w.sc.Teardown(failed, gs.Name)

	res := Result{
		Scenario:  gs.Name,
		Status:    StatusPassed,
		Err:       stepErr,
		Started:   w.started,
		Duration:  s.now().Sub(w.started),
		Artifacts: arts,
	}
	if failed {
		res.Status = StatusFailed
	}
	s.recorder.ScenarioFinished(res)

	log := s.log.With(zap.String("scenario", gs.Name), zap.Duration("duration", res.Duration))
	if failed {
		log.Error("scenario failed", zap.Error(stepErr), zap.String("screenshot", arts.Screenshot))
	} else {
		log.Info("scenario passed")
	}
	return ctx, nil
}
