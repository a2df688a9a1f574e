package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCompletePickupCommandIsNotConstructed = errors.New(
	"CompletePickupCommand must be created via NewCompletePickupCommand constructor",
)

// CompletePickupCommand represents the distributor typing the code the client
// shows at the counter.
type CompletePickupCommand struct { //nolint:recvcheck //using for validation
	handoff

	guard guard.ConstructorGuard
}

// NewCompletePickupCommand requires a well-formed six digit code.
func NewCompletePickupCommand(orderID, actorID kernel.UUID, code string) (CompletePickupCommand, error) {
	h, err := newHandoff(orderID, actorID, code)
	if err != nil {
		return CompletePickupCommand{}, err
	}
	return CompletePickupCommand{handoff: h, guard: guard.NewConstructorGuard()}, nil
}

func (c CompletePickupCommand) Validate() error {
	return c.guard.Validate(ErrCompletePickupCommandIsNotConstructed)
}
