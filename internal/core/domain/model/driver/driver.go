package driver

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const maxNameLength = 255

// Domain errors for driver operations.
var (
	// ErrNameIsRequired is returned when attempting to create a driver without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrDriverIsNotConstructed is returned when using an improperly initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")
	// ErrOrderNotHeld is returned when releasing a driver from an order it does not carry.
	ErrOrderNotHeld = errors.New("driver does not hold this order")
)

// Status is the availability of a driver.
type Status int

const (
	UnknownStatus Status = iota
	Available
	Occupied
)

func (s Status) String() string {
	switch s {
	case Available:
		return "Available"
	case Occupied:
		return "Occupied"
	case UnknownStatus:
		return "Unknown"
	default:
		return "Unknown"
	}
}

func (s Status) Validate() error {
	if s != Available && s != Occupied {
		return errs.NewValueIsInvalidErrorWithCause("driver status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// Driver represents a driver who carries delivery orders.
//
// Business rules:
//   - Driver must have a valid UUID and a non-empty name
//   - An Occupied driver references exactly one order; an Available driver none
//   - Assign fails with DriverUnavailable while Occupied
//
// Example usage:
//
//	d, err := NewDriver(kernel.NewUUID(), "Awa", "plateau")
//	if err != nil {
//	    return err
//	}
//	err = d.Assign(orderID)
type Driver struct {
	id      kernel.UUID
	name    string
	zone    string
	status  Status
	orderID *kernel.UUID

	kernel.Versioned

	guard guard.ConstructorGuard
}

// NewDriver creates an Available driver. An empty zone means the driver serves every zone.
func NewDriver(id kernel.UUID, name, zone string) (*Driver, error) {
	d := &Driver{
		status: Available,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setZone(zone),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDriver reconstructs a Driver from persistent storage.
//
// Business Rules:
//   - Status must be Available or Occupied
//   - orderID must be set if and only if the driver is Occupied
func RestoreDriver(
	id kernel.UUID,
	name, zone string,
	status Status,
	orderID *kernel.UUID,
	version int,
) (*Driver, error) {
	d := &Driver{
		status:    status,
		Versioned: kernel.RestoreVersioned(version),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setZone(zone),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if (status == Occupied) != (orderID != nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause("orderId",
			fmt.Errorf("%s driver has inconsistent order reference", status))
	}
	if orderID != nil {
		if err := orderID.Validate(); err != nil {
			return nil, err
		}
		held := *orderID
		d.orderID = &held
	}

	return d, nil
}

// Validate ensures the Driver instance was properly constructed.
func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

// IsEqual compares two drivers by identity.
func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

func (d *Driver) ID() kernel.UUID {
	return d.id
}

func (d *Driver) Name() string {
	return d.name
}

func (d *Driver) Zone() string {
	return d.zone
}

func (d *Driver) Status() Status {
	return d.status
}

// OrderID returns the order the driver carries, nil while Available.
func (d *Driver) OrderID() *kernel.UUID {
	if d.orderID == nil {
		return nil
	}
	id := *d.orderID
	return &id
}

func (d *Driver) IsAvailable() bool {
	return d.status == Available
}

// ServesZone reports whether the driver works in zone. An empty zone on either
// side matches everything.
func (d *Driver) ServesZone(zone string) bool {
	zone = normalizeZone(zone)
	return zone == "" || d.zone == "" || d.zone == zone
}

// Assign makes the driver carry the order.
//
// Returns:
//   - DriverUnavailableError if the driver already carries an order
//   - validation error if orderID is invalid
func (d *Driver) Assign(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if d.status == Occupied {
		return errs.NewDriverUnavailableError(d.id)
	}

	d.status = Occupied
	d.orderID = &orderID
	return nil
}

// Release frees the driver from the order it carries. Releasing from another
// order fails so that a stale completion never frees a driver on a new run.
func (d *Driver) Release(orderID kernel.UUID) error {
	if d.orderID == nil || !d.orderID.IsEqual(orderID) {
		return fmt.Errorf("%w: driver %s, order %s", ErrOrderNotHeld, d.id, orderID)
	}

	d.status = Available
	d.orderID = nil
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	if len(name) > maxNameLength {
		return errs.NewValueIsOutOfRangeError("name length", len(name), 1, maxNameLength)
	}
	d.name = name
	return nil
}

func (d *Driver) setZone(zone string) error {
	zone = normalizeZone(zone)
	if len(zone) > maxNameLength {
		return errs.NewValueIsOutOfRangeError("zone length", len(zone), 0, maxNameLength)
	}
	d.zone = zone
	return nil
}

func normalizeZone(zone string) string {
	return strings.ToLower(strings.TrimSpace(zone))
}
