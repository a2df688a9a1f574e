package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
//
// Commit drains the domain events of every aggregate written through its
// repositories into the outbox before the transaction commits, so a state
// change and its events are stored together or not at all.
//
// Repositories obtained without Begin run each call on its own and leave
// domain events on the aggregate; queries use them that way.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns errs.ConcurrencyConflictError when a versioned write lost the race.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	DriverRepository() DriverRepository
	ValidationCodeRepository() ValidationCodeRepository
	WalletRepository() WalletRepository
	OutboxRepository() OutboxRepository
}
