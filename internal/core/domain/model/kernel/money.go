package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Money is an amount in the minor units of the service currency. The ledger never
// uses floating point; a settlement is exact integer arithmetic.
type Money int64

// NewMoney rejects negative amounts.
func NewMoney(amount int64) (Money, error) {
	m := Money(amount)
	if err := m.Validate(); err != nil {
		return 0, err
	}
	return m, nil
}

// NewPositiveMoney rejects zero and negative amounts. Ledger transactions use it.
func NewPositiveMoney(amount int64) (Money, error) {
	if amount <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is not greater than 0", amount))
	}
	return Money(amount), nil
}

func (m Money) Validate() error {
	if m < 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is negative", int64(m)))
	}
	return nil
}

func (m Money) Int64() int64 {
	return int64(m)
}

func (m Money) IsZero() bool {
	return m == 0
}
