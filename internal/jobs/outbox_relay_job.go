package jobs

import (
	"context"
	"log/slog"

	"courierdispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// RelayOutboxHandler publishes one batch of stored domain events.
type RelayOutboxHandler interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (int, error)
}

// OutboxRelayJob periodically hands unpublished outbox messages to the event publisher.
// A tick keeps relaying batches until one comes back short, so a backlog drains within
// a single run. Runs never overlap.
type OutboxRelayJob struct {
	handler   RelayOutboxHandler
	schedule  string
	batchSize int
	cron      *cron.Cron
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *slog.Logger
}

// NewOutboxRelayJob creates the relay job. schedule is a cron spec with seconds.
func NewOutboxRelayJob(handler RelayOutboxHandler, schedule string, batchSize int, logger *slog.Logger) *OutboxRelayJob {
	ctx, cancel := context.WithCancel(context.Background())
	return &OutboxRelayJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      newCron(),
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger.With("component", "outbox_relay_job"),
	}
}

// Start schedules the job.
func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(j.ctx) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(j.ctx, "Outbox relay job started", "schedule", j.schedule, "batch_size", j.batchSize)
	return nil
}

// Run relays batches until the outbox has no more unpublished messages or a batch fails.
// It returns the number of published messages.
func (j *OutboxRelayJob) Run(ctx context.Context) int {
	cmd, err := commands.NewRelayOutboxCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox relay job misconfigured", "error", err)
		return 0
	}

	total := 0
	for ctx.Err() == nil {
		published, err := j.handler.Handle(ctx, cmd)
		total += published
		if err != nil {
			j.logger.ErrorContext(ctx, "Outbox relay failed", "error", err, "published", total)
			break
		}
		if published < j.batchSize {
			break
		}
	}

	if total > 0 {
		j.logger.InfoContext(ctx, "Outbox messages published", "count", total)
	}
	return total
}

// Stop waits for a running relay to finish and stops the schedule.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.cancel()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}

func newCron() *cron.Cron {
	return cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
}
