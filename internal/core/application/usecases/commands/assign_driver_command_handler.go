package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/validationcode"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// AssignDriverCommandHandler puts a confirmed delivery order on the road.
// In one transaction the order moves to InDelivery, a Delivery validation code
// is issued and the driver becomes Occupied.
//
// Example:
//
//	handler := NewAssignDriverCommandHandler(uowFactory, generator, policy)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrDriverUnavailable):
//	    log.Println("Driver is busy")
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    log.Println("Order is not waiting for a driver")
//	case err != nil:
//	    log.Printf("Assignment failed: %v", err)
//	}
type AssignDriverCommandHandler struct {
	uowFactory UoWFactory
	generator  ports.CodeGenerator
	policy     Policy
}

func NewAssignDriverCommandHandler(
	uowFactory UoWFactory,
	generator ports.CodeGenerator,
	policy Policy,
) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory: uowFactory,
		generator:  generator,
		policy:     policy,
	}
}

func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return retryOnConflict(ctx, h.policy.MaxConflictRetries, func() error {
		return h.assign(ctx, cmd)
	})
}

func (h AssignDriverCommandHandler) assign(ctx context.Context, cmd AssignDriverCommand) error {
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
	if err = o.AssignDriver(cmd.ActorID(), cmd.DriverID(), now); err != nil {
		return err
	}

	assignment := services.NewDriverAssignmentService(uow.DriverRepository())
	d, err := assignment.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}
	if !d.IsAvailable() {
		return errs.NewDriverUnavailableError(d.ID())
	}

	codes := services.NewValidationCodeService(uow.ValidationCodeRepository(), h.generator, h.policy.MaxCodeAttempts)
	if _, err = codes.Issue(ctx, o.ID(), validationcode.Delivery, now); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = assignment.Assign(ctx, d, o.ID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
