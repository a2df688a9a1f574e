package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// PublishOutboxCommandHandler hands unpublished events to the publisher and
// marks them published in the same transaction that read them.
//
// Delivery is at-least-once: if the commit fails after a successful publish,
// the batch is published again on the next run. Consumers deduplicate on the
// event id.
type PublishOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.EventPublisher
	policy     Policy
}

func NewPublishOutboxCommandHandler(
	uowFactory OutboxUoWFactory,
	publisher ports.EventPublisher,
	policy Policy,
) PublishOutboxCommandHandler {
	return PublishOutboxCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		policy:     policy,
	}
}

// Handle returns how many events were relayed.
func (h PublishOutboxCommandHandler) Handle(ctx context.Context, cmd PublishOutboxCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.OutboxRepository()
	pending, err := outbox.GetUnpublished(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	if err = h.publisher.Publish(ctx, pending...); err != nil {
		return 0, err
	}

	ids := make([]kernel.UUID, 0, len(pending))
	for _, ev := range pending {
		ids = append(ids, ev.ID)
	}
	if err = outbox.MarkPublished(ctx, ids, h.policy.now()); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(pending), nil
}
