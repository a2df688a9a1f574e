package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/events"
)

// EventPublisher delivers events to the notification side. Delivery is at least
// once: the outbox relay may publish an event again after a crash.
type EventPublisher interface {
	Publish(ctx context.Context, evs ...events.Event) error
}
