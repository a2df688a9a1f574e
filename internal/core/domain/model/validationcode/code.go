package validationcode

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Length is the number of digits of a code.
const Length = 6

var ErrCodeIsNotConstructed = errors.New("Code must be created via NewCode constructor")

// Code is a one-time validation code. It is its own aggregate: consumption is a
// compare-and-swap on its version, independent of the order row.
type Code struct {
	id             kernel.UUID
	orderID        kernel.UUID
	value          string
	role           Role
	status         Status
	failedAttempts int
	issuedAt       time.Time
	consumedAt     *time.Time

	kernel.Versioned

	guard guard.ConstructorGuard
}

// Snapshot is the persisted form of a Code.
type Snapshot struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	Value          string
	Role           Role
	Status         Status
	FailedAttempts int
	IssuedAt       time.Time
	ConsumedAt     *time.Time
	Version        int
}

// NewCode creates an Active code.
func NewCode(id, orderID kernel.UUID, value string, role Role, issuedAt time.Time) (*Code, error) {
	c := &Code{
		role:     role,
		status:   Active,
		issuedAt: issuedAt.UTC(),
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		ValidateValue(value),
		role.Validate(),
	); err != nil {
		return nil, err
	}

	c.id = id
	c.orderID = orderID
	c.value = value
	return c, nil
}

// RestoreCode rebuilds a code from storage.
func RestoreCode(s Snapshot) (*Code, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		ValidateValue(s.Value),
		s.Role.Validate(),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if s.FailedAttempts < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("failedAttempts", fmt.Errorf("%d is negative", s.FailedAttempts))
	}
	if (s.Status == Consumed) != (s.ConsumedAt != nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause("consumedAt",
			fmt.Errorf("consumedAt must be set exactly for consumed codes, status is %s", s.Status))
	}

	c := &Code{
		id:             s.ID,
		orderID:        s.OrderID,
		value:          s.Value,
		role:           s.Role,
		status:         s.Status,
		failedAttempts: s.FailedAttempts,
		issuedAt:       s.IssuedAt.UTC(),
		Versioned:      kernel.RestoreVersioned(s.Version),
		guard:          guard.NewConstructorGuard(),
	}
	if s.ConsumedAt != nil {
		at := s.ConsumedAt.UTC()
		c.consumedAt = &at
	}
	return c, nil
}

// ValidateValue checks the code format: exactly six ASCII digits.
func ValidateValue(value string) error {
	if len(value) != Length {
		return errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("must have %d digits", Length))
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return errs.NewValueIsInvalidErrorWithCause("code", errors.New("must be numeric"))
		}
	}
	return nil
}

func (c *Code) Validate() error {
	if c == nil {
		return ErrCodeIsNotConstructed
	}
	return c.guard.Validate(ErrCodeIsNotConstructed)
}

func (c *Code) ID() kernel.UUID {
	return c.id
}

func (c *Code) OrderID() kernel.UUID {
	return c.orderID
}

// Value is the secret. Only the client display endpoint may expose it.
func (c *Code) Value() string {
	return c.value
}

func (c *Code) Role() Role {
	return c.role
}

func (c *Code) Status() Status {
	return c.status
}

func (c *Code) FailedAttempts() int {
	return c.failedAttempts
}

func (c *Code) IssuedAt() time.Time {
	return c.issuedAt
}

func (c *Code) ConsumedAt() *time.Time {
	if c.consumedAt == nil {
		return nil
	}
	at := *c.consumedAt
	return &at
}

func (c *Code) Snapshot() Snapshot {
	return Snapshot{
		ID:             c.id,
		OrderID:        c.orderID,
		Value:          c.value,
		Role:           c.role,
		Status:         c.status,
		FailedAttempts: c.failedAttempts,
		IssuedAt:       c.issuedAt,
		ConsumedAt:     c.ConsumedAt(),
		Version:        c.Version(),
	}
}

// Matches compares the presented value in constant time.
func (c *Code) Matches(value string) bool {
	return subtle.ConstantTimeCompare([]byte(c.value), []byte(value)) == 1
}

// Verify consumes the code when value and role match. It returns nil exactly once.
//
// Outcomes:
//   - nil: the code is now Consumed
//   - ErrAlreadyConsumed: the consumed code was presented again
//   - ErrAttemptsExceeded: the code is Locked, or this failure locked it
//   - ErrCodeInvalid: wrong value, wrong role, or a revoked code
//
// A wrong value on an Active code increments the failed-attempt counter, which the
// caller must persist even though the verification failed.
func (c *Code) Verify(value string, role Role, maxAttempts int, now time.Time) error {
	switch c.status {
	case Consumed:
		if role == c.role && c.Matches(value) {
			return errs.ErrAlreadyConsumed
		}
		return errs.NewCodeInvalidError("no active code")
	case Revoked:
		return errs.NewCodeInvalidError("code was revoked")
	case Locked:
		return errs.ErrAttemptsExceeded
	case Active:
	case UnknownStatus:
		return errs.NewCodeInvalidError("no active code")
	default:
		return errs.NewCodeInvalidError("no active code")
	}

	if role != c.role {
		return errs.NewCodeInvalidError(fmt.Sprintf("code is for %s, not %s", c.role, role))
	}

	if !c.Matches(value) {
		c.failedAttempts++
		if maxAttempts > 0 && c.failedAttempts >= maxAttempts {
			c.status = Locked
			return errs.ErrAttemptsExceeded
		}
		return errs.NewCodeInvalidError("wrong value")
	}

	c.status = Consumed
	at := now.UTC()
	c.consumedAt = &at
	return nil
}

// Revoke invalidates a live code. Consumed codes stay consumed.
func (c *Code) Revoke() error {
	if !c.status.IsLive() {
		return errs.NewInvalidTransitionError("revoke code", c.status.String())
	}
	c.status = Revoked
	return nil
}
