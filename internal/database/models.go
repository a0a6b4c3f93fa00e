// Package database stores run history in PostgreSQL through GORM.
package database

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusRunning = "running"
	StatusPassed  = "passed"
	StatusFailed  = "failed"
)

// Run is one invocation of the suite, retries included.
// Statuses: running, passed, failed.
type Run struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Env        string     `gorm:"type:varchar(64);not null"`
	Browser    string     `gorm:"type:varchar(16);not null"`
	Status     string     `gorm:"type:varchar(16);not null;default:'running'"`
	Attempts   int        `gorm:"not null;default:0"`
	ExitCode   int        `gorm:"not null;default:0"`
	StartedAt  time.Time  `gorm:"not null"`
	FinishedAt *time.Time // nil while running
}

// ScenarioResult is one scenario outcome within a run.
type ScenarioResult struct {
	ID             uint      `gorm:"primaryKey"`
	RunID          uuid.UUID `gorm:"type:uuid;index;not null"`
	Name           string    `gorm:"type:text;not null"`
	Status         string    `gorm:"type:varchar(16);not null"`
	Error          string    `gorm:"type:text"`
	DurationMs     int64     `gorm:"not null;default:0"`
	ScreenshotPath string    `gorm:"type:text"`
	TracePath      string    `gorm:"type:text"`
	VideoPath      string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}
