package services

import (
	"context"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// DriverAssignmentService matches delivery orders with drivers and keeps driver
// availability consistent with the orders they carry.
//
// Business rules:
//   - a driver carries at most one order
//   - only an Available driver can be assigned
//   - Release only frees the driver from the order it carries
//
// Example usage:
//
//	assignment := NewDriverAssignmentService(uow.DriverRepository())
//	err := assignment.Assign(ctx, d, orderID)
//	if errors.Is(err, errs.ErrDriverUnavailable) {
//	    // pick another driver
//	}
type DriverAssignmentService struct {
	drivers ports.DriverRepository
}

func NewDriverAssignmentService(drivers ports.DriverRepository) *DriverAssignmentService {
	return &DriverAssignmentService{drivers: drivers}
}

// Register creates an Available driver.
func (s *DriverAssignmentService) Register(ctx context.Context, id kernel.UUID, name, zone string) (*driver.Driver, error) {
	d, err := driver.NewDriver(id, name, zone)
	if err != nil {
		return nil, err
	}
	if err = s.drivers.Add(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// FindAvailable returns the Available drivers serving zone. An empty zone means all zones.
func (s *DriverAssignmentService) FindAvailable(ctx context.Context, zone string) ([]*driver.Driver, error) {
	return s.drivers.GetAvailable(ctx, zone)
}

// Get loads a driver.
func (s *DriverAssignmentService) Get(ctx context.Context, driverID kernel.UUID) (*driver.Driver, error) {
	return s.drivers.Get(ctx, driverID)
}

// Assign marks the driver Occupied by the order.
//
// Returns errs.DriverUnavailableError if the driver already carries an order.
func (s *DriverAssignmentService) Assign(ctx context.Context, d *driver.Driver, orderID kernel.UUID) error {
	if err := d.Assign(orderID); err != nil {
		return err
	}
	return s.drivers.Update(ctx, d)
}

// Release makes the driver Available again after the order was delivered.
func (s *DriverAssignmentService) Release(ctx context.Context, driverID, orderID kernel.UUID) error {
	d, err := s.drivers.Get(ctx, driverID)
	if err != nil {
		return err
	}
	if err = d.Release(orderID); err != nil {
		return err
	}
	return s.drivers.Update(ctx, d)
}
