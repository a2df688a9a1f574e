package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	outboxRelayJob   *OutboxRelayJob
	outboxCleanupJob *OutboxCleanupJob
}

func NewJobManager(relay *OutboxRelayJob, cleanup *OutboxCleanupJob) *JobManager {
	return &JobManager{
		outboxRelayJob:   relay,
		outboxCleanupJob: cleanup,
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

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.outboxRelayJob.Stop()
	jm.outboxCleanupJob.Stop()
}
