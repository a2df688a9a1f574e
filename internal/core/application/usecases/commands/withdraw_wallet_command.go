package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrWithdrawWalletCommandIsNotConstructed = errors.New(
	"WithdrawWalletCommand must be created via NewWithdrawWalletCommand constructor",
)

// WithdrawWalletCommand debits the actor's own ledger account.
type WithdrawWalletCommand struct { //nolint:recvcheck //using for validation
	walletMovement

	guard guard.ConstructorGuard
}

// NewWithdrawWalletCommand requires a strictly positive amount in minor units.
func NewWithdrawWalletCommand(
	ownerID, actorID kernel.UUID,
	amount int64,
	description string,
) (WithdrawWalletCommand, error) {
	m, err := newWalletMovement(ownerID, actorID, amount, description)
	if err != nil {
		return WithdrawWalletCommand{}, err
	}
	return WithdrawWalletCommand{walletMovement: m, guard: guard.NewConstructorGuard()}, nil
}

func (c WithdrawWalletCommand) Validate() error {
	return c.guard.Validate(ErrWithdrawWalletCommandIsNotConstructed)
}
