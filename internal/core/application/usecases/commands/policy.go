package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Policy holds the business knobs shared by command handlers.
type Policy struct {
	// MaxConflictRetries is how many times a handler re-runs after losing an optimistic write.
	MaxConflictRetries int

	// MaxCodeAttempts locks a validation code after that many wrong values. Zero disables locking.
	MaxCodeAttempts int

	// DeliveryFee is charged on every delivery order and paid to the driver.
	DeliveryFee kernel.Money

	// Currency of the ledger accounts, ISO 4217.
	Currency string

	// LowBalanceThreshold raises LowBalance when a withdrawal leaves less than this amount.
	LowBalanceThreshold kernel.Money

	Now func() time.Time
}

func DefaultPolicy() Policy {
	return Policy{
		MaxConflictRetries:  3,
		MaxCodeAttempts:     5,
		DeliveryFee:         2000,
		Currency:            "XOF",
		LowBalanceThreshold: 1000,
		Now:                 time.Now,
	}
}

func (p Policy) now() time.Time {
	if p.Now == nil {
		return time.Now().UTC()
	}
	return p.Now().UTC()
}

// retryOnConflict runs fn again from scratch while it fails with a concurrency
// conflict, at most retries extra times.
func retryOnConflict(ctx context.Context, retries int, fn func() error) error {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if err = fn(); !errors.Is(err, errs.ErrConcurrencyConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Join(err, ctxErr)
		}
	}
	return err
}
