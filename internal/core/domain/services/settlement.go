package services

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// SplitSettlement splits an order total between the distributor and the driver.
//
// Pickup orders give (total, 0). Delivery orders give (total - deliveryFee, deliveryFee).
// The two parts always sum to total and neither is negative.
//
// Returns a validation error when total or deliveryFee is negative, or when
// deliveryFee exceeds total.
func SplitSettlement(total, deliveryFee kernel.Money, isDelivery bool) (kernel.Money, kernel.Money, error) {
	if err := total.Validate(); err != nil {
		return 0, 0, err
	}
	if !isDelivery {
		return total, 0, nil
	}
	if err := deliveryFee.Validate(); err != nil {
		return 0, 0, err
	}
	if deliveryFee > total {
		return 0, 0, errs.NewValueIsInvalidErrorWithCause("deliveryFee",
			fmt.Errorf("fee %d exceeds total %d", deliveryFee, total))
	}
	return total - deliveryFee, deliveryFee, nil
}
