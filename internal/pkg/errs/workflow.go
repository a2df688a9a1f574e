package errs

import (
	"errors"
	"fmt"
)

// Workflow sentinels. The HTTP adapter owns the mapping to status codes.
var (
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrCodeInvalid         = errors.New("validation code is invalid")
	ErrAlreadyConsumed     = errors.New("validation code already consumed")
	ErrAttemptsExceeded    = errors.New("validation code locked after too many failed attempts")
	ErrTooManyAttempts     = errors.New("too many validation attempts, retry later")
	ErrDriverUnavailable   = errors.New("driver is not available")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAlreadySettled      = errors.New("order already settled")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrActorNotAllowed     = errors.New("actor is not allowed to perform this operation")
)

// InvalidTransitionError names the operation refused in the current status.
type InvalidTransitionError struct {
	Operation string
	From      string
}

func NewInvalidTransitionError(operation, from string) *InvalidTransitionError {
	return &InvalidTransitionError{Operation: operation, From: from}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s from %s", ErrInvalidTransition, e.Operation, e.From)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ConcurrencyConflictError is returned when a versioned write lost the race.
type ConcurrencyConflictError struct {
	Aggregate string
	ID        any
	Cause     error
}

func NewConcurrencyConflictError(aggregate string, id any) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Aggregate: aggregate, ID: id}
}

func NewConcurrencyConflictErrorWithCause(aggregate string, id any, cause error) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Aggregate: aggregate, ID: id, Cause: cause}
}

func (e *ConcurrencyConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %v (cause: %s)", ErrConcurrencyConflict, e.Aggregate, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s %v", ErrConcurrencyConflict, e.Aggregate, e.ID)
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return ErrConcurrencyConflict
}

// ActorNotAllowedError is returned when an actor acts on an order it is not party to.
type ActorNotAllowedError struct {
	Operation string
	ActorID   any
}

func NewActorNotAllowedError(operation string, actorID any) *ActorNotAllowedError {
	return &ActorNotAllowedError{Operation: operation, ActorID: actorID}
}

func (e *ActorNotAllowedError) Error() string {
	return fmt.Sprintf("%s: %v cannot %s", ErrActorNotAllowed, e.ActorID, e.Operation)
}

func (e *ActorNotAllowedError) Unwrap() error {
	return ErrActorNotAllowed
}

// InsufficientBalanceError carries the balance seen when a debit was refused.
type InsufficientBalanceError struct {
	OwnerID   any
	Balance   int64
	Requested int64
}

func NewInsufficientBalanceError(ownerID any, balance, requested int64) *InsufficientBalanceError {
	return &InsufficientBalanceError{OwnerID: ownerID, Balance: balance, Requested: requested}
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: account %v holds %d, requested %d", ErrInsufficientBalance, e.OwnerID, e.Balance, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// DriverUnavailableError names the driver that could not be assigned.
type DriverUnavailableError struct {
	DriverID any
}

func NewDriverUnavailableError(driverID any) *DriverUnavailableError {
	return &DriverUnavailableError{DriverID: driverID}
}

func (e *DriverUnavailableError) Error() string {
	return fmt.Sprintf("%s: %v", ErrDriverUnavailable, e.DriverID)
}

func (e *DriverUnavailableError) Unwrap() error {
	return ErrDriverUnavailable
}

// CodeInvalidError tells why a presented validation code was refused.
type CodeInvalidError struct {
	Reason string
}

func NewCodeInvalidError(reason string) *CodeInvalidError {
	return &CodeInvalidError{Reason: reason}
}

func (e *CodeInvalidError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeInvalid, e.Reason)
}

func (e *CodeInvalidError) Unwrap() error {
	return ErrCodeInvalid
}
