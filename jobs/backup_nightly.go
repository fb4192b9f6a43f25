package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/gevapp/gevapp/internal/backup"
	jobmetrics "github.com/gevapp/gevapp/internal/jobs"
)

// NewBackupNightlyTask constructs the scheduled backup task.
func NewBackupNightlyTask() *asynq.Task {
	return asynq.NewTask(TaskTypeBackupNightly, nil, asynq.Queue(QueueDefault))
}

// NewBackupNightlyHandler writes the full JSON dump to the backup directory.
func NewBackupNightlyHandler(svc *backup.Service, metrics *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track(TaskTypeBackupNightly)
		path, err := svc.WriteFile(ctx)
		if err != nil {
			logger.Error("nightly backup failed", "error", err)
			return tracker.End(err)
		}
		logger.Info("nightly backup complete", "path", path)
		return tracker.End(nil)
	}
}
