// Package events defines the notification contract the fulfillment core emits.
// Events are written to the outbox in the same transaction as the state change
// that raised them and are relayed to subscribers at least once.
package events

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// Type names an event on the wire. Values are stable: consumers switch on them.
type Type string

const (
	OrderConfirmed Type = "OrderConfirmed"
	DriverAssigned Type = "DriverAssigned"
	OrderDelivered Type = "OrderDelivered"
	OrderCancelled Type = "OrderCancelled"
	LowBalance     Type = "LowBalance"
)

func (t Type) IsValid() bool {
	switch t {
	case OrderConfirmed, DriverAssigned, OrderDelivered, OrderCancelled, LowBalance:
		return true
	default:
		return false
	}
}

// Event is a fact about an order or a wallet. Order events carry the order and
// the ids of its parties; LowBalance carries the owner and the balance left.
type Event struct {
	ID            kernel.UUID   `json:"id"`
	Type          Type          `json:"type"`
	OrderID       *kernel.UUID  `json:"orderId,omitempty"`
	ClientID      *kernel.UUID  `json:"clientId,omitempty"`
	DistributorID *kernel.UUID  `json:"distributorId,omitempty"`
	DriverID      *kernel.UUID  `json:"driverId,omitempty"`
	OwnerID       *kernel.UUID  `json:"ownerId,omitempty"`
	Balance       *kernel.Money `json:"balance,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	OccurredAt    time.Time     `json:"occurredAt"`
}

// Key is the partitioning key: the order id, or the owner id for wallet events.
func (e Event) Key() string {
	switch {
	case e.OrderID != nil:
		return e.OrderID.String()
	case e.OwnerID != nil:
		return e.OwnerID.String()
	default:
		return e.ID.String()
	}
}

// Recorder collects events raised by an aggregate until the unit of work drains them.
// Embed it by value.
type Recorder struct {
	pending []Event
}

func (r *Recorder) Record(e Event) {
	r.pending = append(r.pending, e)
}

// DomainEvents returns the events raised since the last drain.
func (r *Recorder) DomainEvents() []Event {
	out := make([]Event, len(r.pending))
	copy(out, r.pending)
	return out
}

func (r *Recorder) ClearDomainEvents() {
	r.pending = nil
}
