package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/validationcode"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// completion is the handoff flow shared by pickup and delivery.
//
// In one transaction the code is consumed, the order is Delivered, the driver
// (if any) is released and the ledger settles. A wrong code commits only the
// failed attempt and leaves the order untouched.
type completion struct {
	uowFactory UoWFactory
	limiter    ports.AttemptLimiter
	policy     Policy
}

func (c completion) run(ctx context.Context, cmd handoff, role validationcode.Role) error {
	if c.limiter != nil {
		if err := c.limiter.Allow(ctx, cmd.OrderID()); err != nil {
			return err
		}
	}

	return retryOnConflict(ctx, c.policy.MaxConflictRetries, func() error {
		return c.complete(ctx, cmd, role)
	})
}

func (c completion) complete(ctx context.Context, cmd handoff, role validationcode.Role) error {
	uow := c.uowFactory.Create()
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

	operation := operationFor(role)
	if services.CodeRoleFor(o) != role {
		return errs.NewInvalidTransitionError(operation, kindOf(o))
	}
	if err = o.AuthorizeCompletion(cmd.ActorID()); err != nil {
		return err
	}

	now := c.policy.now()
	codes := services.NewValidationCodeService(uow.ValidationCodeRepository(), nil, c.policy.MaxCodeAttempts)

	if o.Status() == order.Delivered {
		// A retry with the code that completed the order is reported as such.
		if verifyErr := codes.Verify(ctx, o.ID(), cmd.Code(), role, now); errors.Is(verifyErr, errs.ErrAlreadyConsumed) {
			return verifyErr
		}
		return errs.NewInvalidTransitionError(operation, o.Status().String())
	}
	if _, err = o.Status().Deliver(o.IsDelivery()); err != nil {
		return err
	}

	if err = codes.Verify(ctx, o.ID(), cmd.Code(), role, now); err != nil {
		if errors.Is(err, errs.ErrCodeInvalid) || errors.Is(err, errs.ErrAttemptsExceeded) {
			if commitErr := uow.Commit(ctx); commitErr != nil {
				return commitErr
			}
		}
		return err
	}

	if err = o.Complete(cmd.ActorID(), now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if driverID := o.DriverID(); driverID != nil {
		assignment := services.NewDriverAssignmentService(uow.DriverRepository())
		if err = assignment.Release(ctx, *driverID, o.ID()); err != nil {
			return err
		}
	}

	ledger := services.NewLedger(uow.WalletRepository(), c.policy.Currency, c.policy.LowBalanceThreshold)
	if _, err = ledger.Settle(ctx, services.SettlementFor(o), now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func operationFor(role validationcode.Role) string {
	if role == validationcode.Delivery {
		return "complete delivery"
	}
	return "complete pickup"
}

func kindOf(o *order.Order) string {
	if o.IsDelivery() {
		return "delivery order"
	}
	return "pickup order"
}
