package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
	"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
)

// GetActiveOrdersQuery lists the Pending, Confirmed and InDelivery orders of a distributor.
//
// Example:
//
//	query, _ := NewGetActiveOrdersQuery(distributorID, actorID)
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get active orders: %w", err)
//	}
//	fmt.Printf("%d orders in progress\n", len(orders))
type GetActiveOrdersQuery struct {
	distributorID kernel.UUID
	actorID       kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetActiveOrdersQuery(distributorID, actorID kernel.UUID) (GetActiveOrdersQuery, error) {
	if err := errors.Join(distributorID.Validate(), actorID.Validate()); err != nil {
		return GetActiveOrdersQuery{}, err
	}
	return GetActiveOrdersQuery{
		distributorID: distributorID,
		actorID:       actorID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

func (q GetActiveOrdersQuery) DistributorID() kernel.UUID {
	return q.distributorID
}

func (q GetActiveOrdersQuery) ActorID() kernel.UUID {
	return q.actorID
}
