// Package jobs provides scheduled background tasks for the fulfillment service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Schedules accept six-field expressions (with seconds) and descriptors such as "@every 1s".
//
// # Available Jobs
//
// 1. OutboxRelayJob - publishes pending outbox events and marks them published
// 2. OutboxCleanupJob - deletes published events older than the retention period
//
// # Usage
//
//	metrics := jobs.NewMetrics(registry)
//	relay := jobs.NewOutboxRelayJob(publishHandler, 100, "@every 1s", metrics, logger)
//	cleanup := jobs.NewOutboxCleanupJob(cleanupHandler, 7*24*time.Hour, "@hourly", metrics, logger)
//	jobManager := jobs.NewJobManager(relay, cleanup)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed relay leaves the batch unpublished; the next run picks it up again.
// Runs never overlap: a run still in progress makes the scheduler skip the next tick.
package jobs
