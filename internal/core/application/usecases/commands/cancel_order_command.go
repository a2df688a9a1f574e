package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand represents the client or the distributor cancelling an
// order before it is on the road.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderAction
	reason string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a cancel command. The reason is optional.
func NewCancelOrderCommand(orderID, actorID kernel.UUID, reason string) (CancelOrderCommand, error) {
	action, err := newOrderAction(orderID, actorID)
	if err != nil {
		return CancelOrderCommand{}, err
	}
	return CancelOrderCommand{orderAction: action, reason: reason, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) Reason() string {
	return c.reason
}
