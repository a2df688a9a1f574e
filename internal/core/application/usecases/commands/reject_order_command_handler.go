package commands

import (
	"context"
)

// RejectOrderCommandHandler cancels Pending orders on behalf of their distributor
// with the "rejected" reason.
type RejectOrderCommandHandler struct {
	uowFactory UoWFactory
	policy     Policy
}

func NewRejectOrderCommandHandler(uowFactory UoWFactory, policy Policy) RejectOrderCommandHandler {
	return RejectOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h RejectOrderCommandHandler) Handle(ctx context.Context, cmd RejectOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return retryOnConflict(ctx, h.policy.MaxConflictRetries, func() error {
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

		if err = o.Reject(cmd.ActorID(), h.policy.now()); err != nil {
			return err
		}

		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}

		return uow.Commit(ctx)
	})
}
