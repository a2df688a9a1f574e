package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/events"
	"fulfillment/internal/core/domain/model/kernel"
)

// OutboxRepository stores domain events next to the state change that raised them.
type OutboxRepository interface {
	// Add writes events in the current transaction.
	Add(ctx context.Context, evs ...events.Event) error

	// GetUnpublished returns up to limit events not yet relayed, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]events.Event, error)

	// MarkPublished records that the events reached the publisher.
	MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error

	// DeletePublishedBefore removes relayed events older than before and returns how many.
	DeletePublishedBefore(ctx context.Context, before time.Time) (int64, error)
}
