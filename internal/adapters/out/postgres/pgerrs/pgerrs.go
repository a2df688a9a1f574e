// Package pgerrs maps PostgreSQL failures that mean "someone else won the race"
// onto errs.ConcurrencyConflictError, so handlers can retry them.
package pgerrs

import (
	"errors"

	"fulfillment/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
	uniqueViolation      = "23505"
)

// IsConflict reports whether err is a serialization failure, a deadlock or a
// unique violation.
func IsConflict(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case serializationFailure, deadlockDetected, uniqueViolation:
		return true
	default:
		return false
	}
}

// Translate wraps conflicts into errs.ConcurrencyConflictError and returns other errors unchanged.
func Translate(err error, aggregate string, id any) error {
	if err == nil || !IsConflict(err) {
		return err
	}
	return errs.NewConcurrencyConflictErrorWithCause(aggregate, id, err)
}
