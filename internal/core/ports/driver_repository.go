package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for driver aggregates.
type DriverRepository interface {
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update is an optimistic write on the driver's version.
	Update(ctx context.Context, aggregate *driver.Driver) error

	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetAvailable retrieves the Available drivers serving zone, sorted by name.
	// An empty zone returns every Available driver.
	GetAvailable(ctx context.Context, zone string) ([]*driver.Driver, error)
}
