package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Delivery orders are charged the policy delivery fee; pickup orders are free of it.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, policy)
//	cmd, _ := NewCreateOrderCommand(orderID, clientID, distributorID, true, items)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// Order is now Pending and waits for the distributor
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     Policy
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, policy Policy) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

// Handle processes the order creation command.
// Uses transaction to ensure order is properly persisted or rolled back on error.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var fee kernel.Money
	if cmd.IsDelivery() {
		fee = h.policy.DeliveryFee
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		cmd.ClientID(),
		cmd.DistributorID(),
		cmd.IsDelivery(),
		cmd.Items(),
		fee,
		h.policy.now(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
