package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAcceptOrderCommandIsNotConstructed = errors.New(
	"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
)

// AcceptOrderCommand represents the distributor confirming a Pending order.
type AcceptOrderCommand struct { //nolint:recvcheck //using for validation
	orderAction

	guard guard.ConstructorGuard
}

func NewAcceptOrderCommand(orderID, actorID kernel.UUID) (AcceptOrderCommand, error) {
	action, err := newOrderAction(orderID, actorID)
	if err != nil {
		return AcceptOrderCommand{}, err
	}
	return AcceptOrderCommand{orderAction: action, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}
