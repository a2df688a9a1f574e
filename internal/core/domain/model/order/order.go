package order

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	// RejectedReason is the cancel reason recorded when the distributor rejects a pending order.
	RejectedReason = "rejected"

	maxCancelReasonLength = 500
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of the fulfillment workflow. It is created by the
// client with status Pending and mutated only through its transition methods,
// each of which checks that the acting party is allowed to perform it.
//
// Invariants:
//   - line items, total and delivery fee never change after creation
//   - total = sum(quantity * unitPrice) + deliveryFee, and deliveryFee is 0 for pickup
//   - a driver is attached exactly while the order is, or was, InDelivery
//   - every timestamp is set at most once
type Order struct {
	id            kernel.UUID
	clientID      kernel.UUID
	distributorID kernel.UUID
	driverID      *kernel.UUID
	isDelivery    bool
	lineItems     []LineItem
	deliveryFee   kernel.Money
	total         kernel.Money
	status        Status
	cancelReason  string

	createdAt   time.Time
	confirmedAt *time.Time
	completedAt *time.Time
	cancelledAt *time.Time

	kernel.Versioned
	events.Recorder

	guard guard.ConstructorGuard
}

// Snapshot is the flat persisted form of an Order.
type Snapshot struct {
	ID            kernel.UUID
	ClientID      kernel.UUID
	DistributorID kernel.UUID
	DriverID      *kernel.UUID
	IsDelivery    bool
	LineItems     []LineItem
	DeliveryFee   kernel.Money
	Total         kernel.Money
	Status        Status
	CancelReason  string
	CreatedAt     time.Time
	ConfirmedAt   *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	Version       int
}

// NewOrder creates a Pending order and computes its total.
//
// Parameters:
//   - clientID, distributorID: the parties; they must differ
//   - isDelivery: pickup orders never acquire a driver
//   - items: at least one line item
//   - deliveryFee: must be 0 for pickup orders
//
// Example:
//
//	item, _ := NewLineItem("sku-42", 2, 5_000)
//	o, err := NewOrder(kernel.NewUUID(), clientID, distributorID, false, []LineItem{item}, 0, time.Now())
func NewOrder(
	id, clientID, distributorID kernel.UUID,
	isDelivery bool,
	items []LineItem,
	deliveryFee kernel.Money,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		isDelivery: isDelivery,
		status:     Pending,
		createdAt:  createdAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setParties(clientID, distributorID),
		o.setLineItems(items),
		o.setDeliveryFee(deliveryFee),
	); err != nil {
		return nil, err
	}

	total, err := computeTotal(o.lineItems, o.deliveryFee)
	if err != nil {
		return nil, err
	}
	o.total = total

	return o, nil
}

// RestoreOrder rebuilds an order from storage. It re-checks the invariants so that
// a corrupted row never becomes a live aggregate.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		isDelivery:   s.IsDelivery,
		status:       s.Status,
		cancelReason: s.CancelReason,
		createdAt:    s.CreatedAt.UTC(),
		confirmedAt:  copyTime(s.ConfirmedAt),
		completedAt:  copyTime(s.CompletedAt),
		cancelledAt:  copyTime(s.CancelledAt),
		Versioned:    kernel.RestoreVersioned(s.Version),
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setParties(s.ClientID, s.DistributorID),
		o.setLineItems(s.LineItems),
		o.setDeliveryFee(s.DeliveryFee),
		s.Status.Validate(),
		validateDriver(s.Status, s.IsDelivery, s.DriverID),
	); err != nil {
		return nil, err
	}

	total, err := computeTotal(o.lineItems, o.deliveryFee)
	if err != nil {
		return nil, err
	}
	if total != s.Total {
		return nil, errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("stored total %d does not match line items %d", s.Total, total))
	}
	o.total = total

	if s.DriverID != nil {
		driverID := *s.DriverID
		o.driverID = &driverID
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) ClientID() kernel.UUID {
	return o.clientID
}

func (o *Order) DistributorID() kernel.UUID {
	return o.distributorID
}

// DriverID returns the assigned driver, nil until AssignDriver succeeded.
func (o *Order) DriverID() *kernel.UUID {
	if o.driverID == nil {
		return nil
	}
	id := *o.driverID
	return &id
}

func (o *Order) IsDelivery() bool {
	return o.isDelivery
}

// LineItems returns a copy of the order lines.
func (o *Order) LineItems() []LineItem {
	items := make([]LineItem, len(o.lineItems))
	copy(items, o.lineItems)
	return items
}

func (o *Order) DeliveryFee() kernel.Money {
	return o.deliveryFee
}

func (o *Order) Total() kernel.Money {
	return o.total
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CancelReason() string {
	return o.cancelReason
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) ConfirmedAt() *time.Time {
	return copyTime(o.confirmedAt)
}

func (o *Order) CompletedAt() *time.Time {
	return copyTime(o.completedAt)
}

func (o *Order) CancelledAt() *time.Time {
	return copyTime(o.cancelledAt)
}

// Snapshot exports the persisted state of the order.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:            o.id,
		ClientID:      o.clientID,
		DistributorID: o.distributorID,
		DriverID:      o.DriverID(),
		IsDelivery:    o.isDelivery,
		LineItems:     o.LineItems(),
		DeliveryFee:   o.deliveryFee,
		Total:         o.total,
		Status:        o.status,
		CancelReason:  o.cancelReason,
		CreatedAt:     o.createdAt,
		ConfirmedAt:   o.ConfirmedAt(),
		CompletedAt:   o.CompletedAt(),
		CancelledAt:   o.CancelledAt(),
		Version:       o.Version(),
	}
}

// IsParty reports whether the actor is the client, the distributor or the assigned driver.
func (o *Order) IsParty(actorID kernel.UUID) bool {
	return o.clientID.IsEqual(actorID) || o.distributorID.IsEqual(actorID) || o.isAssignedDriver(actorID)
}

// Accept confirms a pending order. Only the distributor may accept.
func (o *Order) Accept(actorID kernel.UUID, now time.Time) error {
	if err := o.requireDistributor("accept", actorID); err != nil {
		return err
	}

	newStatus, err := o.status.Confirm()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.confirmedAt = stamp(now)
	o.raise(events.OrderConfirmed, now, "")
	return nil
}

// Reject cancels a pending order on behalf of the distributor.
func (o *Order) Reject(actorID kernel.UUID, now time.Time) error {
	if err := o.requireDistributor("reject", actorID); err != nil {
		return err
	}

	newStatus, err := o.status.Reject()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.cancelReason = RejectedReason
	o.cancelledAt = stamp(now)
	o.raise(events.OrderCancelled, now, RejectedReason)
	return nil
}

// Cancel cancels a Pending or Confirmed order. The client and the distributor may cancel.
// No money moves: nothing is reserved before settlement.
func (o *Order) Cancel(actorID kernel.UUID, reason string, now time.Time) error {
	if !o.clientID.IsEqual(actorID) && !o.distributorID.IsEqual(actorID) {
		return errs.NewActorNotAllowedError("cancel", actorID)
	}

	reason = strings.TrimSpace(reason)
	if len(reason) > maxCancelReasonLength {
		return errs.NewValueIsOutOfRangeError("reason length", len(reason), 0, maxCancelReasonLength)
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.cancelReason = reason
	o.cancelledAt = stamp(now)
	o.raise(events.OrderCancelled, now, reason)
	return nil
}

// AssignDriver hands a confirmed delivery order to a driver. Only the distributor
// may assign, and pickup orders never get a driver.
func (o *Order) AssignDriver(actorID, driverID kernel.UUID, now time.Time) error {
	if err := o.requireDistributor("assign driver", actorID); err != nil {
		return err
	}
	if err := driverID.Validate(); err != nil {
		return err
	}
	if !o.isDelivery {
		return errs.NewInvalidTransitionError("assign driver", "pickup order")
	}

	newStatus, err := o.status.StartDelivery()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.driverID = &driverID
	o.raise(events.DriverAssigned, now, "")
	return nil
}

// AuthorizeCompletion checks that the actor may submit the handoff code.
// Pickup orders are completed by the distributor; delivery orders by the
// distributor or the assigned driver.
func (o *Order) AuthorizeCompletion(actorID kernel.UUID) error {
	if o.distributorID.IsEqual(actorID) {
		return nil
	}
	if o.isDelivery && o.isAssignedDriver(actorID) {
		return nil
	}
	return errs.NewActorNotAllowedError("complete", actorID)
}

// Complete marks the order Delivered. The caller has already consumed the
// validation code within the same unit of work.
func (o *Order) Complete(actorID kernel.UUID, now time.Time) error {
	if err := o.AuthorizeCompletion(actorID); err != nil {
		return err
	}

	newStatus, err := o.status.Deliver(o.isDelivery)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.completedAt = stamp(now)
	o.raise(events.OrderDelivered, now, "")
	return nil
}

// AuthorizeReissue checks that the actor may request a fresh validation code and
// that the order is waiting for a handoff.
func (o *Order) AuthorizeReissue(actorID kernel.UUID) error {
	if !o.clientID.IsEqual(actorID) && !o.distributorID.IsEqual(actorID) {
		return errs.NewActorNotAllowedError("reissue validation code", actorID)
	}
	if !o.AwaitsHandoff() {
		return errs.NewInvalidTransitionError("reissue validation code", o.status.String())
	}
	return nil
}

// AuthorizeCodeDisplay checks that the actor is the client: only the client sees the code.
func (o *Order) AuthorizeCodeDisplay(actorID kernel.UUID) error {
	if !o.clientID.IsEqual(actorID) {
		return errs.NewActorNotAllowedError("view validation code", actorID)
	}
	return nil
}

// AwaitsHandoff reports whether the order waits for a validation code:
// a confirmed pickup order or a delivery order on the road.
func (o *Order) AwaitsHandoff() bool {
	if o.isDelivery {
		return o.status == InDelivery
	}
	return o.status == Confirmed
}

func (o *Order) requireDistributor(operation string, actorID kernel.UUID) error {
	if !o.distributorID.IsEqual(actorID) {
		return errs.NewActorNotAllowedError(operation, actorID)
	}
	return nil
}

func (o *Order) isAssignedDriver(actorID kernel.UUID) bool {
	return o.driverID != nil && o.driverID.IsEqual(actorID)
}

func (o *Order) raise(eventType events.Type, now time.Time, reason string) {
	orderID := o.id
	clientID := o.clientID
	distributorID := o.distributorID

	o.Record(events.Event{
		ID:            kernel.NewUUID(),
		Type:          eventType,
		OrderID:       &orderID,
		ClientID:      &clientID,
		DistributorID: &distributorID,
		DriverID:      o.DriverID(),
		Reason:        reason,
		OccurredAt:    now.UTC(),
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setParties(clientID, distributorID kernel.UUID) error {
	if err := errors.Join(clientID.Validate(), distributorID.Validate()); err != nil {
		return err
	}
	if clientID.IsEqual(distributorID) {
		return errs.NewValueIsInvalidErrorWithCause("distributorId", errors.New("client and distributor must differ"))
	}
	o.clientID = clientID
	o.distributorID = distributorID
	return nil
}

func (o *Order) setLineItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("lineItems")
	}
	for idx, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("line item %d: %w", idx, err)
		}
	}
	o.lineItems = make([]LineItem, len(items))
	copy(o.lineItems, items)
	return nil
}

func (o *Order) setDeliveryFee(fee kernel.Money) error {
	if err := fee.Validate(); err != nil {
		return err
	}
	if !o.isDelivery && fee != 0 {
		return errs.NewValueIsInvalidErrorWithCause("deliveryFee", errors.New("pickup orders carry no delivery fee"))
	}
	o.deliveryFee = fee
	return nil
}

func validateDriver(status Status, isDelivery bool, driverID *kernel.UUID) error {
	mustHaveDriver := status == InDelivery || (status == Delivered && isDelivery)
	if mustHaveDriver && driverID == nil {
		return errs.NewValueIsInvalidErrorWithCause("driverId",
			fmt.Errorf("%s delivery order must have a driver", status))
	}
	if !mustHaveDriver && driverID != nil {
		return errs.NewValueIsInvalidErrorWithCause("driverId",
			fmt.Errorf("%s order must not have a driver", status))
	}
	if driverID != nil {
		return driverID.Validate()
	}
	return nil
}

func computeTotal(items []LineItem, fee kernel.Money) (kernel.Money, error) {
	total := int64(fee)
	for _, item := range items {
		subtotal, err := item.Subtotal()
		if err != nil {
			return 0, err
		}
		if total > math.MaxInt64-int64(subtotal) {
			return 0, errs.NewValueIsOutOfRangeError("total", "overflow", 0, int64(math.MaxInt64))
		}
		total += int64(subtotal)
	}
	return kernel.Money(total), nil
}

func stamp(now time.Time) *time.Time {
	t := now.UTC()
	return &t
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
