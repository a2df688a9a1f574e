package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/validationcode"
	"fulfillment/internal/core/ports"
)

// CompleteDeliveryCommandHandler completes an order on the road once the
// assigned driver or the distributor presents the client's Delivery code.
// The driver is released and paid the delivery fee, the distributor the rest.
type CompleteDeliveryCommandHandler struct {
	completion completion
}

// NewCompleteDeliveryCommandHandler accepts a nil limiter to disable per-order rate limiting.
func NewCompleteDeliveryCommandHandler(
	uowFactory UoWFactory,
	limiter ports.AttemptLimiter,
	policy Policy,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		completion: completion{uowFactory: uowFactory, limiter: limiter, policy: policy},
	}
}

func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.completion.run(ctx, cmd.handoff, validationcode.Delivery)
}
