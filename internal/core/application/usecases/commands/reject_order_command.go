package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRejectOrderCommandIsNotConstructed = errors.New(
	"RejectOrderCommand must be created via NewRejectOrderCommand constructor",
)

// RejectOrderCommand represents the distributor turning down a Pending order.
type RejectOrderCommand struct { //nolint:recvcheck //using for validation
	orderAction

	guard guard.ConstructorGuard
}

func NewRejectOrderCommand(orderID, actorID kernel.UUID) (RejectOrderCommand, error) {
	action, err := newOrderAction(orderID, actorID)
	if err != nil {
		return RejectOrderCommand{}, err
	}
	return RejectOrderCommand{orderAction: action, guard: guard.NewConstructorGuard()}, nil
}

func (c RejectOrderCommand) Validate() error {
	return c.guard.Validate(ErrRejectOrderCommandIsNotConstructed)
}
