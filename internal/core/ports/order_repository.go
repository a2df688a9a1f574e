// Package ports defines the contracts between the fulfillment core and its adapters:
// repositories, the unit of work, the event publisher and the protections around
// validation codes. Adapters live under internal/adapters.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Update is an optimistic write: it succeeds only if the stored version equals
// aggregate.Version() and then advances the aggregate's version. A lost race
// returns errs.ConcurrencyConflictError.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError if it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetActiveByDistributor retrieves the Pending, Confirmed and InDelivery orders
	// of a distributor, oldest first.
	GetActiveByDistributor(ctx context.Context, distributorID kernel.UUID) ([]*order.Order, error)
}
