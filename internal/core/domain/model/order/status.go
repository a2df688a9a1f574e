package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Confirmed ──┬──> InDelivery ──> Delivered
//	   │            │       └─────────────────> Delivered (pickup)
//	   └────────────┴──> Cancelled
//
// Status never goes backwards. Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status; the distributor has not answered yet.
	Pending

	// Confirmed means the distributor accepted the order.
	Confirmed

	// InDelivery means a driver carries the order. Delivery orders only.
	InDelivery

	// Delivered means the handoff was proven with a validation code and the ledger settled.
	Delivered

	// Cancelled is reachable from Pending and Confirmed.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Pending:    "Pending",
		Confirmed:  "Confirmed",
		InDelivery: "InDelivery",
		Delivered:  "Delivered",
		Cancelled:  "Cancelled",
	}
}

// Validate checks if the Status value is one of the five lifecycle states.
func (s Status) Validate() error {
	if s < Pending || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer and is safe on invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsActive reports whether the order still needs work from its parties.
func (s Status) IsActive() bool {
	return s == Pending || s == Confirmed || s == InDelivery
}

// Confirm transitions Pending to Confirmed.
func (s Status) Confirm() (Status, error) {
	if s != Pending {
		return 0, errs.NewInvalidTransitionError("accept", s.String())
	}
	return Confirmed, nil
}

// Reject transitions Pending to Cancelled. Unlike Cancel it is not allowed once confirmed.
func (s Status) Reject() (Status, error) {
	if s != Pending {
		return 0, errs.NewInvalidTransitionError("reject", s.String())
	}
	return Cancelled, nil
}

// Cancel transitions Pending or Confirmed to Cancelled.
// InDelivery orders cannot be cancelled: the goods are already on the road.
func (s Status) Cancel() (Status, error) {
	if s != Pending && s != Confirmed {
		return 0, errs.NewInvalidTransitionError("cancel", s.String())
	}
	return Cancelled, nil
}

// StartDelivery transitions Confirmed to InDelivery.
func (s Status) StartDelivery() (Status, error) {
	if s != Confirmed {
		return 0, errs.NewInvalidTransitionError("assign driver", s.String())
	}
	return InDelivery, nil
}

// Deliver transitions to Delivered. Pickup orders complete from Confirmed,
// delivery orders from InDelivery.
func (s Status) Deliver(isDelivery bool) (Status, error) {
	if isDelivery && s != InDelivery {
		return 0, errs.NewInvalidTransitionError("complete delivery", s.String())
	}
	if !isDelivery && s != Confirmed {
		return 0, errs.NewInvalidTransitionError("complete pickup", s.String())
	}
	return Delivered, nil
}

// CanFollow reports whether next is a legal direct successor of s.
func (s Status) CanFollow(next Status) bool {
	switch s {
	case Pending:
		return next == Confirmed || next == Cancelled
	case Confirmed:
		return next == InDelivery || next == Delivered || next == Cancelled
	case InDelivery:
		return next == Delivered
	case Unknown, Delivered, Cancelled:
		return false
	default:
		return false
	}
}
