package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

// CompleteDeliveryCommand represents the driver or the distributor typing the
// code the client shows at the door.
type CompleteDeliveryCommand struct { //nolint:recvcheck //using for validation
	handoff

	guard guard.ConstructorGuard
}

// NewCompleteDeliveryCommand requires a well-formed six digit code.
func NewCompleteDeliveryCommand(orderID, actorID kernel.UUID, code string) (CompleteDeliveryCommand, error) {
	h, err := newHandoff(orderID, actorID, code)
	if err != nil {
		return CompleteDeliveryCommand{}, err
	}
	return CompleteDeliveryCommand{handoff: h, guard: guard.NewConstructorGuard()}, nil
}

func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}
