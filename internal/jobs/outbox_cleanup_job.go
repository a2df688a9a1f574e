package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OutboxCleanupJob deletes published events older than the retention period.
type OutboxCleanupJob struct {
	handler   commands.CleanupOutboxCommandHandler
	retention time.Duration
	schedule  string
	metrics   *Metrics
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewOutboxCleanupJob(
	handler commands.CleanupOutboxCommandHandler,
	retention time.Duration,
	schedule string,
	metrics *Metrics,
	logger *slog.Logger,
) *OutboxCleanupJob {
	return &OutboxCleanupJob{
		handler:   handler,
		retention: retention,
		schedule:  schedule,
		metrics:   metrics,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "outbox_cleanup_job"),
	}
}

// Run purges once and returns how many events were deleted.
func (j *OutboxCleanupJob) Run(ctx context.Context) (int64, error) {
	cmd, err := commands.NewCleanupOutboxCommand(j.retention)
	if err != nil {
		return 0, err
	}

	n, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		return 0, err
	}
	j.metrics.purged.Add(float64(n))
	return n, nil
}

func (j *OutboxCleanupJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		n, err := j.Run(ctx)
		if err != nil {
			j.logger.ErrorContext(ctx, "Outbox cleanup failed", "error", err)
			return
		}
		if n > 0 {
			j.logger.InfoContext(ctx, "Outbox cleaned", "deleted", n)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox cleanup job started", "schedule", j.schedule)
	return nil
}

func (j *OutboxCleanupJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox cleanup job stopped")
}
