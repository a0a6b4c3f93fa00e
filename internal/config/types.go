package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultPageLoadTimeoutMs = 30000
	DefaultElementTimeoutMs  = 10000
)

// EnvironmentConfig is the decoded environment document. Viper folds keys to
// lower case, so environment names are matched case-insensitively.
type EnvironmentConfig struct {
	DefaultEnv   string                 `mapstructure:"default_env"`
	Environments map[string]Environment `mapstructure:"environments"`
}

type Environment struct {
	BaseURL     string      `mapstructure:"base_url"`
	Credentials Credentials `mapstructure:"credentials"`
	Timeouts    Timeouts    `mapstructure:"timeouts"`
}

type Credentials struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Timeouts are in milliseconds.
type Timeouts struct {
	PageLoad int `mapstructure:"page_load"`
	Element  int `mapstructure:"element"`
}

func (t Timeouts) withDefaults() Timeouts {
	if t.PageLoad <= 0 {
		t.PageLoad = DefaultPageLoadTimeoutMs
	}
	if t.Element <= 0 {
		t.Element = DefaultElementTimeoutMs
	}
	return t
}

func (t Timeouts) PageLoadDuration() time.Duration {
	return time.Duration(t.PageLoad) * time.Millisecond
}

func (t Timeouts) ElementDuration() time.Duration {
	return time.Duration(t.Element) * time.Millisecond
}

// Environment resolves name, falling back to DefaultEnv when name is empty.
func (c *EnvironmentConfig) Environment(name string) (Environment, error) {
	if name == "" {
		name = c.DefaultEnv
	}
	e, ok := c.Environments[strings.ToLower(name)]
	if !ok {
		return Environment{}, &UnknownEnvironmentError{Name: name}
	}
	e.Timeouts = e.Timeouts.withDefaults()
	return e, nil
}

type ArtifactMode string

const (
	ModeOff       ArtifactMode = "off"
	ModeOn        ArtifactMode = "on"
	ModeOnFailure ArtifactMode = "on-failure"
)

func (m ArtifactMode) Valid() bool {
	switch m {
	case ModeOff, ModeOn, ModeOnFailure:
		return true
	}
	return false
}

// Keep reports whether an artifact recorded under this mode survives a
// scenario with the given outcome.
func (m ArtifactMode) Keep(failed bool) bool {
	switch m {
	case ModeOn:
		return true
	case ModeOnFailure:
		return failed
	default:
		return false
	}
}

type Viewport struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type ExecutionConfig struct {
	Browser         string       `mapstructure:"browser"`
	Headless        bool         `mapstructure:"headless"`
	SlowMo          int          `mapstructure:"slow_mo"`
	Viewport        Viewport     `mapstructure:"viewport"`
	Retries         int          `mapstructure:"retries"`
	ParallelWorkers int          `mapstructure:"parallel_workers"`
	Trace           ArtifactMode `mapstructure:"trace"`
	Video           ArtifactMode `mapstructure:"video"`
	ArtifactsDir    string       `mapstructure:"artifacts_dir"`
}

func (e *ExecutionConfig) SlowMoDuration() time.Duration {
	return time.Duration(e.SlowMo) * time.Millisecond
}

// Validate checks ranges and enums. The browser name is left to the session
// manager, which owns the set of supported engines.
func (e *ExecutionConfig) Validate() error {
	if e.SlowMo < 0 {
		return fmt.Errorf("%w: slow_mo must be >= 0, got %d", ErrInvalidExecutionConfig, e.SlowMo)
	}
	if e.Viewport.Width <= 0 || e.Viewport.Height <= 0 {
		return fmt.Errorf("%w: viewport must be positive, got %dx%d", ErrInvalidExecutionConfig, e.Viewport.Width, e.Viewport.Height)
	}
	if e.Retries < 0 {
		return fmt.Errorf("%w: retries must be >= 0, got %d", ErrInvalidExecutionConfig, e.Retries)
	}
	if e.ParallelWorkers < 1 {
		return fmt.Errorf("%w: parallel_workers must be >= 1, got %d", ErrInvalidExecutionConfig, e.ParallelWorkers)
	}
	if !e.Trace.Valid() {
		return fmt.Errorf("%w: trace must be one of off, on, on-failure, got %q", ErrInvalidExecutionConfig, e.Trace)
	}
	if !e.Video.Valid() {
		return fmt.Errorf("%w: video must be one of off, on, on-failure, got %q", ErrInvalidExecutionConfig, e.Video)
	}
	if e.ArtifactsDir == "" {
		return fmt.Errorf("%w: artifacts_dir must not be empty", ErrInvalidExecutionConfig)
	}
	return nil
}
