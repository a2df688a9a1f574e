package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrTopUpWalletCommandIsNotConstructed = errors.New(
	"TopUpWalletCommand must be created via NewTopUpWalletCommand constructor",
)

// TopUpWalletCommand credits the actor's own ledger account.
type TopUpWalletCommand struct { //nolint:recvcheck //using for validation
	walletMovement

	guard guard.ConstructorGuard
}

// NewTopUpWalletCommand requires a strictly positive amount in minor units.
func NewTopUpWalletCommand(ownerID, actorID kernel.UUID, amount int64, description string) (TopUpWalletCommand, error) {
	m, err := newWalletMovement(ownerID, actorID, amount, description)
	if err != nil {
		return TopUpWalletCommand{}, err
	}
	return TopUpWalletCommand{walletMovement: m, guard: guard.NewConstructorGuard()}, nil
}

func (c TopUpWalletCommand) Validate() error {
	return c.guard.Validate(ErrTopUpWalletCommandIsNotConstructed)
}
