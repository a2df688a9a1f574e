package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// walletMovement is the part shared by top-ups and withdrawals. Only the owner
// moves money on their own account.
type walletMovement struct {
	ownerID     kernel.UUID
	actorID     kernel.UUID
	amount      kernel.Money
	description string
}

func newWalletMovement(ownerID, actorID kernel.UUID, amount int64, description string) (walletMovement, error) {
	money, moneyErr := kernel.NewPositiveMoney(amount)
	if err := errors.Join(ownerID.Validate(), actorID.Validate(), moneyErr); err != nil {
		return walletMovement{}, err
	}
	return walletMovement{
		ownerID:     ownerID,
		actorID:     actorID,
		amount:      money,
		description: description,
	}, nil
}

func (m walletMovement) OwnerID() kernel.UUID {
	return m.ownerID
}

func (m walletMovement) ActorID() kernel.UUID {
	return m.actorID
}

func (m walletMovement) Amount() kernel.Money {
	return m.amount
}

func (m walletMovement) Description() string {
	return m.description
}

func (m walletMovement) authorize(operation string) error {
	if !m.actorID.IsEqual(m.ownerID) {
		return errs.NewActorNotAllowedError(operation, m.actorID)
	}
	return nil
}
