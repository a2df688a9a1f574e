package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand represents the distributor handing a confirmed delivery
// order to a driver.
//
// Example:
//
//	cmd, _ := NewAssignDriverCommand(orderID, driverID, distributorID)
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrDriverUnavailable) {
//	    // pick another driver
//	}
type AssignDriverCommand struct { //nolint:recvcheck //using for validation
	orderAction
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignDriverCommand(orderID, driverID, actorID kernel.UUID) (AssignDriverCommand, error) {
	action, actionErr := newOrderAction(orderID, actorID)
	if err := errors.Join(actionErr, driverID.Validate()); err != nil {
		return AssignDriverCommand{}, err
	}
	return AssignDriverCommand{
		orderAction: action,
		driverID:    driverID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

func (c AssignDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}
