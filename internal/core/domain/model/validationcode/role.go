package validationcode

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Role is the handoff a code proves.
type Role int

const (
	UnknownRole Role = iota
	Pickup
	Delivery
)

func (r Role) String() string {
	switch r {
	case Pickup:
		return "Pickup"
	case Delivery:
		return "Delivery"
	case UnknownRole:
		return "Unknown"
	default:
		return "Unknown"
	}
}

func (r Role) Validate() error {
	if r != Pickup && r != Delivery {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// Status is the state of a single code.
type Status int

const (
	UnknownStatus Status = iota
	Active
	Consumed
	Revoked
	Locked
)

func (s Status) String() string {
	switch s {
	case Active:
		return "Active"
	case Consumed:
		return "Consumed"
	case Revoked:
		return "Revoked"
	case Locked:
		return "Locked"
	case UnknownStatus:
		return "Unknown"
	default:
		return "Unknown"
	}
}

func (s Status) Validate() error {
	if s < Active || s > Locked {
		return errs.NewValueIsInvalidErrorWithCause("code status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsLive reports whether the code still blocks issuing a new one without revocation.
func (s Status) IsLive() bool {
	return s == Active || s == Locked
}
