package notifications

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/events"
)

// LogPublisher writes events to the log. It stands in for Kafka when no
// brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, evs ...events.Event) error {
	for _, ev := range evs {
		p.logger.InfoContext(ctx, "event",
			"id", ev.ID,
			"type", ev.Type,
			"key", ev.Key(),
			"occurred_at", ev.OccurredAt,
		)
	}
	return nil
}
