package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) CreateRun(ctx context.Context, run *Run) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *RunRepository) FinishRun(ctx context.Context, id uuid.UUID, status string, attempts, exitCode int, finished time.Time) error {
	return r.db.WithContext(ctx).Model(&Run{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      status,
			"attempts":    attempts,
			"exit_code":   exitCode,
			"finished_at": finished,
		}).Error
}

func (r *RunRepository) AddScenarioResult(ctx context.Context, res *ScenarioResult) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *RunRepository) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	var run Run
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *RunRepository) ListRuns(ctx context.Context, limit, offset int) ([]Run, error) {
	var runs []Run
	if err := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Offset(offset).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *RunRepository) ListScenarioResults(ctx context.Context, runID uuid.UUID) ([]ScenarioResult, error) {
	var results []ScenarioResult
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
