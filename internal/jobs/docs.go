// Package jobs provides scheduled background tasks for the dispatch service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds enabled) and move domain
// events from the transactional outbox to the message broker.
//
// # Available Jobs
//
// 1. OutboxRelayJob - publishes unpublished outbox messages in batches
// 2. OutboxCleanupJob - deletes published messages older than the retention period
//
// # Usage
//
//	jobManager := jobs.NewJobManager(relayHandler, purgeHandler, jobs.Config{
//		RelaySchedule:   "*/2 * * * * *",
//		RelayBatchSize:  100,
//		CleanupSchedule: "0 */10 * * * *",
//		Retention:       24 * time.Hour,
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Failures are logged and retried on the next tick. Runs of the same job never overlap.
// A failed job start stops the jobs already running.
package jobs
