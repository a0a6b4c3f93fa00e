// Package metrics counts scenario outcomes and writes them in the
// Prometheus text format next to the other run artifacts.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "uiharness"

// FileName is the textfile written into the artifacts directory.
const FileName = "metrics.prom"

type Collector struct {
	registry *prometheus.Registry

	Scenarios          *prometheus.CounterVec
	ScenarioDuration   prometheus.Histogram
	ScreenshotFailures prometheus.Counter
	LaunchFailures     prometheus.Counter
}

// New registers the collectors on a private registry so parallel runs in
// one process never share counters.
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		Scenarios: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scenarios_total",
				Help:      "Finished scenarios by status.",
			},
			[]string{"status"},
		),
		ScenarioDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scenario_duration_seconds",
			Help:      "Wall time from scenario setup to teardown.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~4m
		}),
		ScreenshotFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "screenshot_failures_total",
			Help:      "Failure screenshots that could not be captured.",
		}),
		LaunchFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_launch_failures_total",
			Help:      "Browser sessions that failed to launch or navigate.",
		}),
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) ObserveScenario(status string, d time.Duration) {
	c.Scenarios.WithLabelValues(status).Inc()
	c.ScenarioDuration.Observe(d.Seconds())
}

func (c *Collector) ScreenshotFailed() {
	c.ScreenshotFailures.Inc()
}

func (c *Collector) LaunchFailed() {
	c.LaunchFailures.Inc()
}

// WriteFile writes the current values to dir/metrics.prom atomically.
func (c *Collector) WriteFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create metrics dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return "", fmt.Errorf("write metrics: %w", err)
	}
	return path, nil
}
