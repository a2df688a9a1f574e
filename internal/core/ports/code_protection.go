package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// CodeGenerator produces the six digit secret of a validation code.
type CodeGenerator interface {
	Generate() (string, error)
}

// AttemptLimiter bounds verification attempts per order within a fixed window.
// Allow returns errs.ErrTooManyAttempts once the window budget is spent.
type AttemptLimiter interface {
	Allow(ctx context.Context, orderID kernel.UUID) error
}

// IdempotencyStore remembers request keys for a while so that a replayed
// write is refused instead of applied twice.
type IdempotencyStore interface {
	// Reserve returns true when the key was free and is now taken for ttl.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees a key whose request failed so that the client may retry.
	Release(ctx context.Context, key string) error
}
