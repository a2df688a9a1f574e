package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/validationcode"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// AcceptOrderCommandHandler confirms Pending orders.
// A pickup order gets its Pickup validation code in the same transaction;
// a delivery order gets its code when a driver is assigned.
//
// Of several concurrent acceptances exactly one commits. The others lose the
// optimistic write, re-read a Confirmed order and fail with errs.ErrInvalidTransition.
type AcceptOrderCommandHandler struct {
	uowFactory UoWFactory
	generator  ports.CodeGenerator
	policy     Policy
}

func NewAcceptOrderCommandHandler(
	uowFactory UoWFactory,
	generator ports.CodeGenerator,
	policy Policy,
) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		generator:  generator,
		policy:     policy,
	}
}

func (h AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return retryOnConflict(ctx, h.policy.MaxConflictRetries, func() error {
		return h.accept(ctx, cmd)
	})
}

func (h AcceptOrderCommandHandler) accept(ctx context.Context, cmd AcceptOrderCommand) error {
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

	now := h.policy.now()
	if err = o.Accept(cmd.ActorID(), now); err != nil {
		return err
	}

	if !o.IsDelivery() {
		codes := services.NewValidationCodeService(uow.ValidationCodeRepository(), h.generator, h.policy.MaxCodeAttempts)
		if _, err = codes.Issue(ctx, o.ID(), validationcode.Pickup, now); err != nil {
			return err
		}
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
