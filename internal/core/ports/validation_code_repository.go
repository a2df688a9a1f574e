package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/validationcode"
)

// ValidationCodeRepository persists validation codes.
type ValidationCodeRepository interface {
	Add(ctx context.Context, code *validationcode.Code) error

	// Update is the compare-and-swap on the code version that makes consumption atomic.
	Update(ctx context.Context, code *validationcode.Code) error

	// GetLatest returns the most recently issued code of an order, whatever its status.
	// Returns errs.ObjectNotFoundError when no code was ever issued.
	GetLatest(ctx context.Context, orderID kernel.UUID) (*validationcode.Code, error)
}
