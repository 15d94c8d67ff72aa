package jobs

import (
	"context"

	"github.com/wonny/sage/backend/internal/ml"
	"github.com/wonny/sage/backend/pkg/logger"
)

// ModelReloadJob re-reads model artifacts from disk so that newly
// trained models go live without a restart
type ModelReloadJob struct {
	models   *ml.Context
	schedule string
	logger   *logger.Logger
}

// NewModelReloadJob creates a new model reload job
func NewModelReloadJob(models *ml.Context, schedule string, log *logger.Logger) *ModelReloadJob {
	return &ModelReloadJob{
		models:   models,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *ModelReloadJob) Name() string {
	return "model_reload"
}

// Schedule returns the cron schedule expression
func (j *ModelReloadJob) Schedule() string {
	return j.schedule
}

// Run executes the artifact reload
func (j *ModelReloadJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled model reload")

	if err := j.models.Reload(); err != nil {
		return err
	}

	grade, rec := j.models.Loaded()
	j.logger.WithFields(map[string]interface{}{
		"grade_model":       grade,
		"recommender_model": rec,
	}).Info("Model reload completed")

	return nil
}
