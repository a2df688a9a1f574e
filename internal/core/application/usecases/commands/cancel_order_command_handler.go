package commands

import (
	"context"

	"fulfillment/internal/core/domain/services"
)

// CancelOrderCommandHandler cancels Pending and Confirmed orders.
// The live validation code of a confirmed pickup order is revoked; no money moves.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	policy     Policy
}

func NewCancelOrderCommandHandler(uowFactory UoWFactory, policy Policy) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return retryOnConflict(ctx, h.policy.MaxConflictRetries, func() error {
		return h.cancel(ctx, cmd)
	})
}

func (h CancelOrderCommandHandler) cancel(ctx context.Context, cmd CancelOrderCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = o.Cancel(cmd.ActorID(), cmd.Reason(), h.policy.now()); err != nil {
		return err
	}

	codes := services.NewValidationCodeService(uow.ValidationCodeRepository(), nil, h.policy.MaxCodeAttempts)
	if err = codes.Revoke(ctx, o.ID()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
