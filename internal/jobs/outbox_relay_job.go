package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OutboxRelayJob publishes pending outbox events on a schedule.
type OutboxRelayJob struct {
	handler   commands.PublishOutboxCommandHandler
	batchSize int
	schedule  string
	metrics   *Metrics
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewOutboxRelayJob(
	handler commands.PublishOutboxCommandHandler,
	batchSize int,
	schedule string,
	metrics *Metrics,
	logger *slog.Logger,
) *OutboxRelayJob {
	return &OutboxRelayJob{
		handler:   handler,
		batchSize: batchSize,
		schedule:  schedule,
		metrics:   metrics,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "outbox_relay_job"),
	}
}

// Run relays one batch and returns how many events were published.
func (j *OutboxRelayJob) Run(ctx context.Context) (int, error) {
	cmd, err := commands.NewPublishOutboxCommand(j.batchSize)
	if err != nil {
		return 0, err
	}

	n, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.metrics.relayFailures.Inc()
		return 0, err
	}
	j.metrics.relayed.Add(float64(n))
	return n, nil
}

func (j *OutboxRelayJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Outbox relay failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running relay to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}
