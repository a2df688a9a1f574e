// Package orderrepo persists order aggregates and their line items with GORM.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders row. Line items live in their own table and never change
// after the insert.
type OrderDTO struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey"`
	ClientID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	DistributorID uuid.UUID     `gorm:"type:uuid;not null;index:idx_orders_distributor_status"`
	DriverID      *uuid.UUID    `gorm:"type:uuid;index"`
	IsDelivery    bool          `gorm:"not null"`
	DeliveryFee   int64         `gorm:"not null"`
	Total         int64         `gorm:"not null"`
	Status        int           `gorm:"type:smallint;not null;index:idx_orders_distributor_status"`
	CancelReason  string        `gorm:"type:varchar(500);not null;default:''"`
	CreatedAt     time.Time     `gorm:"not null"`
	ConfirmedAt   *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	Version       int           `gorm:"not null;default:0"`
	LineItems     []LineItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one product line, ordered by Position inside its order.
type LineItemDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position   int       `gorm:"primaryKey"`
	ProductRef string    `gorm:"type:varchar(255);not null"`
	Quantity   int       `gorm:"not null"`
	UnitPrice  int64     `gorm:"not null"`
}

func (LineItemDTO) TableName() string {
	return "order_line_items"
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()

	items := make([]LineItemDTO, 0, len(s.LineItems))
	for i, item := range s.LineItems {
		items = append(items, LineItemDTO{
			OrderID:    s.ID.Bytes(),
			Position:   i,
			ProductRef: item.ProductRef(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().Int64(),
		})
	}

	return OrderDTO{
		ID:            s.ID.Bytes(),
		ClientID:      s.ClientID.Bytes(),
		DistributorID: s.DistributorID.Bytes(),
		DriverID:      rawID(s.DriverID),
		IsDelivery:    s.IsDelivery,
		DeliveryFee:   s.DeliveryFee.Int64(),
		Total:         s.Total.Int64(),
		Status:        int(s.Status),
		CancelReason:  s.CancelReason,
		CreatedAt:     s.CreatedAt,
		ConfirmedAt:   s.ConfirmedAt,
		CompletedAt:   s.CompletedAt,
		CancelledAt:   s.CancelledAt,
		Version:       s.Version,
		LineItems:     items,
	}
}

// mutableColumns are the columns a transition may change.
func mutableColumns(dto OrderDTO) map[string]any {
	return map[string]any{
		"driver_id":     dto.DriverID,
		"status":        dto.Status,
		"cancel_reason": dto.CancelReason,
		"confirmed_at":  dto.ConfirmedAt,
		"completed_at":  dto.CompletedAt,
		"cancelled_at":  dto.CancelledAt,
		"version":       dto.Version + 1,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}
	distributorID, err := kernel.UUIDFromBytes(dto.DistributorID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	items := make([]order.LineItem, 0, len(dto.LineItems))
	for _, itemDTO := range dto.LineItems {
		item, itemErr := order.NewLineItem(itemDTO.ProductRef, itemDTO.Quantity, kernel.Money(itemDTO.UnitPrice))
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:            id,
		ClientID:      clientID,
		DistributorID: distributorID,
		DriverID:      driverID,
		IsDelivery:    dto.IsDelivery,
		LineItems:     items,
		DeliveryFee:   kernel.Money(dto.DeliveryFee),
		Total:         kernel.Money(dto.Total),
		Status:        order.Status(dto.Status),
		CancelReason:  dto.CancelReason,
		CreatedAt:     dto.CreatedAt,
		ConfirmedAt:   dto.ConfirmedAt,
		CompletedAt:   dto.CompletedAt,
		CancelledAt:   dto.CancelledAt,
		Version:       dto.Version,
	})
}

func rawID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}
