package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReissueValidationCodeCommandIsNotConstructed = errors.New(
	"ReissueValidationCodeCommand must be created via NewReissueValidationCodeCommand constructor",
)

// ReissueValidationCodeCommand asks for a fresh code, typically after the
// previous one locked.
type ReissueValidationCodeCommand struct { //nolint:recvcheck //using for validation
	orderAction

	guard guard.ConstructorGuard
}

func NewReissueValidationCodeCommand(orderID, actorID kernel.UUID) (ReissueValidationCodeCommand, error) {
	action, err := newOrderAction(orderID, actorID)
	if err != nil {
		return ReissueValidationCodeCommand{}, err
	}
	return ReissueValidationCodeCommand{orderAction: action, guard: guard.NewConstructorGuard()}, nil
}

func (c ReissueValidationCodeCommand) Validate() error {
	return c.guard.Validate(ErrReissueValidationCodeCommandIsNotConstructed)
}
