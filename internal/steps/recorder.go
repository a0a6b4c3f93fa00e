package steps

import (
	"time"

	"uiHarness/internal/scenario"
)

type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// Result describes one finished scenario.
type Result struct {
	Scenario  string
	Status    Status
	Err       error
	Started   time.Time
	Duration  time.Duration
	Artifacts scenario.Artifacts
}

// Recorder observes scenario outcomes. Scenarios may run in parallel, so
// implementations must be safe for concurrent use.
type Recorder interface {
	SessionLaunchFailed(scenario string, err error)
	ScenarioFinished(r Result)
}

type nopRecorder struct{}

func (nopRecorder) SessionLaunchFailed(string, error) {}
func (nopRecorder) ScenarioFinished(Result)           {}
