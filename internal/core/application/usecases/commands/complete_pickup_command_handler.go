package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/validationcode"
	"fulfillment/internal/core/ports"
)

// CompletePickupCommandHandler completes a confirmed pickup order once the
// distributor presents the client's Pickup code, and settles it into the ledger.
//
// Example:
//
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrCodeInvalid):
//	    // ask for the code again
//	case errors.Is(err, errs.ErrAttemptsExceeded):
//	    // the client must request a new code
//	case errors.Is(err, errs.ErrAlreadyConsumed):
//	    // the order was already completed with this code
//	}
type CompletePickupCommandHandler struct {
	completion completion
}

// NewCompletePickupCommandHandler accepts a nil limiter to disable per-order rate limiting.
func NewCompletePickupCommandHandler(
	uowFactory UoWFactory,
	limiter ports.AttemptLimiter,
	policy Policy,
) CompletePickupCommandHandler {
	return CompletePickupCommandHandler{
		completion: completion{uowFactory: uowFactory, limiter: limiter, policy: policy},
	}
}

func (h CompletePickupCommandHandler) Handle(ctx context.Context, cmd CompletePickupCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.completion.run(ctx, cmd.handoff, validationcode.Pickup)
}
