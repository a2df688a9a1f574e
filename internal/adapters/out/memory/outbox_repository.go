package memory

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/events"
	"fulfillment/internal/core/domain/model/kernel"
)

type outboxRepository struct {
	uow *UnitOfWork
}

func (r *outboxRepository) Add(_ context.Context, evs ...events.Event) error {
	r.uow.outbox = append(r.uow.outbox, evs...)
	return r.uow.written()
}

func (r *outboxRepository) GetUnpublished(_ context.Context, limit int) ([]events.Event, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]events.Event, 0)
	for _, row := range s.outbox {
		if limit > 0 && len(result) >= limit {
			break
		}
		if row.publishedAt != nil {
			continue
		}
		if _, marked := r.uow.published[row.event.ID]; marked {
			continue
		}
		result = append(result, row.event)
	}
	return result, nil
}

func (r *outboxRepository) MarkPublished(_ context.Context, ids []kernel.UUID, at time.Time) error {
	for _, id := range ids {
		r.uow.published[id] = at.UTC()
	}
	return r.uow.written()
}

func (r *outboxRepository) DeletePublishedBefore(_ context.Context, before time.Time) (int64, error) {
	s := r.uow.store
	s.mu.Lock()
	var count int64
	for _, row := range s.outbox {
		if row.publishedAt != nil && row.publishedAt.Before(before) {
			count++
		}
	}
	s.mu.Unlock()

	cutoff := before
	r.uow.purgeBefore = &cutoff
	if err := r.uow.written(); err != nil {
		return 0, err
	}
	return count, nil
}
