package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a client placing an order with a distributor.
// The delivery fee is not part of the command: it comes from the Policy.
//
// Example:
//
//	item, _ := order.NewLineItem("rice-25kg", 2, 6250)
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), clientID, distributorID, false, []order.LineItem{item})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, policy)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	clientID      kernel.UUID
	distributorID kernel.UUID
	isDelivery    bool
	items         []order.LineItem

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new Pending order.
// Validates identifiers and requires at least one constructed line item.
func NewCreateOrderCommand(
	orderID, clientID, distributorID kernel.UUID,
	isDelivery bool,
	items []order.LineItem,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		isDelivery: isDelivery,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setParties(clientID, distributorID),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) ClientID() kernel.UUID {
	return c.clientID
}

func (c CreateOrderCommand) DistributorID() kernel.UUID {
	return c.distributorID
}

func (c CreateOrderCommand) IsDelivery() bool {
	return c.isDelivery
}

// Items returns a copy of the requested line items.
func (c CreateOrderCommand) Items() []order.LineItem {
	items := make([]order.LineItem, len(c.items))
	copy(items, c.items)
	return items
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setParties(clientID, distributorID kernel.UUID) error {
	if err := errors.Join(clientID.Validate(), distributorID.Validate()); err != nil {
		return err
	}

	c.clientID = clientID
	c.distributorID = distributorID
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	c.items = make([]order.LineItem, len(items))
	copy(c.items, items)
	return nil
}
