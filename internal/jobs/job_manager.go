package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// Config holds the schedules of the background jobs.
type Config struct {
	RelaySchedule   string
	RelayBatchSize  int
	CleanupSchedule string
	Retention       time.Duration
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	outboxRelayJob   *OutboxRelayJob
	outboxCleanupJob *OutboxCleanupJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	relayHandler RelayOutboxHandler,
	purgeHandler PurgeOutboxHandler,
	cfg Config,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		outboxRelayJob:   NewOutboxRelayJob(relayHandler, cfg.RelaySchedule, cfg.RelayBatchSize, logger),
		outboxCleanupJob: NewOutboxCleanupJob(purgeHandler, cfg.CleanupSchedule, cfg.Retention, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	if err := jm.outboxCleanupJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.outboxRelayJob.Stop()
		return fmt.Errorf("failed to start outbox cleanup job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs, waiting for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.outboxRelayJob.Stop()
	jm.outboxCleanupJob.Stop()
}
