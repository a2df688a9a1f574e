package queries

import (
	"time"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/wallet"
)

// OrderResponse is the read model of an order. The validation code is never part of it.
type OrderResponse struct {
	ID            kernel.UUID
	ClientID      kernel.UUID
	DistributorID kernel.UUID
	DriverID      *kernel.UUID
	IsDelivery    bool
	LineItems     []LineItemResponse
	DeliveryFee   kernel.Money
	Total         kernel.Money
	Status        order.Status
	CancelReason  string
	CreatedAt     time.Time
	ConfirmedAt   *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	Version       int
}

type LineItemResponse struct {
	ProductRef string
	Quantity   int
	UnitPrice  kernel.Money
}

func newOrderResponse(o *order.Order) OrderResponse {
	items := o.LineItems()
	lines := make([]LineItemResponse, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineItemResponse{
			ProductRef: item.ProductRef(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice(),
		})
	}

	return OrderResponse{
		ID:            o.ID(),
		ClientID:      o.ClientID(),
		DistributorID: o.DistributorID(),
		DriverID:      o.DriverID(),
		IsDelivery:    o.IsDelivery(),
		LineItems:     lines,
		DeliveryFee:   o.DeliveryFee(),
		Total:         o.Total(),
		Status:        o.Status(),
		CancelReason:  o.CancelReason(),
		CreatedAt:     o.CreatedAt(),
		ConfirmedAt:   o.ConfirmedAt(),
		CompletedAt:   o.CompletedAt(),
		CancelledAt:   o.CancelledAt(),
		Version:       o.Version(),
	}
}

type DriverResponse struct {
	ID      kernel.UUID
	Name    string
	Zone    string
	Status  driver.Status
	OrderID *kernel.UUID
}

func newDriverResponse(d *driver.Driver) DriverResponse {
	return DriverResponse{
		ID:      d.ID(),
		Name:    d.Name(),
		Zone:    d.Zone(),
		Status:  d.Status(),
		OrderID: d.OrderID(),
	}
}

type TransactionResponse struct {
	ID             kernel.UUID
	Type           wallet.TransactionType
	Amount         kernel.Money
	RelatedOrderID *kernel.UUID
	Description    string
	BalanceAfter   kernel.Money
	CreatedAt      time.Time
}

func newTransactionResponse(tx *wallet.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             tx.ID(),
		Type:           tx.Type(),
		Amount:         tx.Amount(),
		RelatedOrderID: tx.RelatedOrderID(),
		Description:    tx.Description(),
		BalanceAfter:   tx.BalanceAfter(),
		CreatedAt:      tx.CreatedAt(),
	}
}
