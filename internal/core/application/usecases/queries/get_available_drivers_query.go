package queries

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrGetAvailableDriversQueryIsNotConstructed = errors.New(
	"GetAvailableDriversQuery must be created via NewGetAvailableDriversQuery constructor",
)

// GetAvailableDriversQuery lists the drivers a distributor can assign.
// An empty zone lists every Available driver.
type GetAvailableDriversQuery struct {
	zone string

	guard guard.ConstructorGuard
}

func NewGetAvailableDriversQuery(zone string) GetAvailableDriversQuery {
	return GetAvailableDriversQuery{zone: zone, guard: guard.NewConstructorGuard()}
}

func (q GetAvailableDriversQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableDriversQueryIsNotConstructed)
}

func (q GetAvailableDriversQuery) Zone() string {
	return q.zone
}
