package jobs

import (
	"context"
	"log/slog"
	"time"

	"courierdispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// PurgeOutboxHandler deletes published outbox messages older than a retention period.
type PurgeOutboxHandler interface {
	Handle(ctx context.Context, cmd commands.PurgeOutboxCommand) (int64, error)
}

// OutboxCleanupJob removes published outbox messages once they leave the retention window.
type OutboxCleanupJob struct {
	handler   PurgeOutboxHandler
	schedule  string
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewOutboxCleanupJob(
	handler PurgeOutboxHandler,
	schedule string,
	retention time.Duration,
	logger *slog.Logger,
) *OutboxCleanupJob {
	return &OutboxCleanupJob{
		handler:   handler,
		schedule:  schedule,
		retention: retention,
		cron:      newCron(),
		logger:    logger.With("component", "outbox_cleanup_job"),
	}
}

func (j *OutboxCleanupJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox cleanup job started",
		"schedule", j.schedule, "retention", j.retention)
	return nil
}

// Run performs one purge and returns the number of deleted messages.
func (j *OutboxCleanupJob) Run(ctx context.Context) int64 {
	cmd, err := commands.NewPurgeOutboxCommand(j.retention)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox cleanup job misconfigured", "error", err)
		return 0
	}

	deleted, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox cleanup failed", "error", err)
		return 0
	}
	if deleted > 0 {
		j.logger.InfoContext(ctx, "Published outbox messages purged", "count", deleted)
	}
	return deleted
}

func (j *OutboxCleanupJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox cleanup job stopped")
}
