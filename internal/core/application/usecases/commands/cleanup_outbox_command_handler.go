package commands

import (
	"context"
)

// CleanupOutboxCommandHandler keeps the outbox table small.
type CleanupOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	policy     Policy
}

func NewCleanupOutboxCommandHandler(uowFactory OutboxUoWFactory, policy Policy) CleanupOutboxCommandHandler {
	return CleanupOutboxCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

// Handle returns how many events were deleted.
func (h CleanupOutboxCommandHandler) Handle(ctx context.Context, cmd CleanupOutboxCommand) (int64, error) {
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

	deleted, err := uow.OutboxRepository().DeletePublishedBefore(ctx, h.policy.now().Add(-cmd.Retention()))
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return deleted, nil
}
