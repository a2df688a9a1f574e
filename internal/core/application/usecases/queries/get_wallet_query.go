package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	DefaultTransactionsLimit = 50
	MaxTransactionsLimit     = 500
)

var ErrGetWalletQueryIsNotConstructed = errors.New(
	"GetWalletQuery must be created via NewGetWalletQuery constructor",
)

// GetWalletQuery reads an owner's ledger account. Only the owner may read it.
type GetWalletQuery struct {
	ownerID kernel.UUID
	actorID kernel.UUID
	limit   int

	guard guard.ConstructorGuard
}

// NewGetWalletQuery builds a wallet read. A zero limit means DefaultTransactionsLimit;
// the limit only applies to the transaction listing.
func NewGetWalletQuery(ownerID, actorID kernel.UUID, limit int) (GetWalletQuery, error) {
	if err := errors.Join(ownerID.Validate(), actorID.Validate()); err != nil {
		return GetWalletQuery{}, err
	}
	if limit == 0 {
		limit = DefaultTransactionsLimit
	}
	if limit < 1 || limit > MaxTransactionsLimit {
		return GetWalletQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxTransactionsLimit)
	}
	return GetWalletQuery{ownerID: ownerID, actorID: actorID, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetWalletQuery) Validate() error {
	return q.guard.Validate(ErrGetWalletQueryIsNotConstructed)
}

func (q GetWalletQuery) OwnerID() kernel.UUID {
	return q.ownerID
}

func (q GetWalletQuery) ActorID() kernel.UUID {
	return q.actorID
}

func (q GetWalletQuery) Limit() int {
	return q.limit
}

func (q GetWalletQuery) authorize() error {
	if !q.actorID.IsEqual(q.ownerID) {
		return errs.NewActorNotAllowedError("view wallet", q.actorID)
	}
	return nil
}
