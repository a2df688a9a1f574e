package http

import (
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

// Request bodies. Struct tags drive the echo validator.
type (
	lineItemRequest struct {
		ProductRef string `json:"productRef" validate:"required,max=255"`
		Quantity   int    `json:"quantity" validate:"required,min=1"`
		UnitPrice  int64  `json:"unitPrice" validate:"min=0"`
	}

	newOrderRequest struct {
		DistributorID uuid.UUID         `json:"distributorId" validate:"required"`
		IsDelivery    bool              `json:"isDelivery"`
		Items         []lineItemRequest `json:"items" validate:"required,min=1,dive"`
	}

	statusChangeRequest struct {
		Status string `json:"status" validate:"required"`
		Reason string `json:"reason" validate:"max=500"`
	}

	handoffRequest struct {
		ValidationCode string `json:"validationCode" validate:"required,len=6,numeric"`
	}

	assignmentRequest struct {
		OrderID  uuid.UUID `json:"orderId" validate:"required"`
		DriverID uuid.UUID `json:"driverId" validate:"required"`
	}

	walletMovementRequest struct {
		Type        string `json:"type" validate:"required,oneof=credit debit"`
		Amount      int64  `json:"amount" validate:"required,min=1"`
		Description string `json:"description" validate:"max=255"`
	}

	newDriverRequest struct {
		Name string `json:"name" validate:"required,max=255"`
		Zone string `json:"zone" validate:"max=255"`
	}
)

// Response bodies.
type (
	errorResponse struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}

	lineItemResponse struct {
		ProductRef string `json:"productRef"`
		Quantity   int    `json:"quantity"`
		UnitPrice  int64  `json:"unitPrice"`
	}

	orderResponse struct {
		ID            uuid.UUID          `json:"id"`
		ClientID      uuid.UUID          `json:"clientId"`
		DistributorID uuid.UUID          `json:"distributorId"`
		DriverID      *uuid.UUID         `json:"driverId,omitempty"`
		IsDelivery    bool               `json:"isDelivery"`
		LineItems     []lineItemResponse `json:"lineItems"`
		DeliveryFee   int64              `json:"deliveryFee"`
		Total         int64              `json:"total"`
		Status        string             `json:"status"`
		CancelReason  string             `json:"cancelReason,omitempty"`
		CreatedAt     time.Time          `json:"createdAt"`
		ConfirmedAt   *time.Time         `json:"confirmedAt,omitempty"`
		CompletedAt   *time.Time         `json:"completedAt,omitempty"`
		CancelledAt   *time.Time         `json:"cancelledAt,omitempty"`
		Version       int                `json:"version"`
	}

	validationCodeResponse struct {
		Code     string    `json:"code"`
		Role     string    `json:"role"`
		IssuedAt time.Time `json:"issuedAt"`
	}

	balanceResponse struct {
		OwnerID  uuid.UUID `json:"ownerId"`
		Balance  int64     `json:"balance"`
		Currency string    `json:"currency"`
	}

	transactionResponse struct {
		ID             uuid.UUID  `json:"id"`
		Type           string     `json:"type"`
		Amount         int64      `json:"amount"`
		RelatedOrderID *uuid.UUID `json:"relatedOrderId,omitempty"`
		Description    string     `json:"description"`
		BalanceAfter   int64      `json:"balanceAfter"`
		CreatedAt      time.Time  `json:"createdAt"`
	}

	driverResponse struct {
		ID      uuid.UUID  `json:"id"`
		Name    string     `json:"name"`
		Zone    string     `json:"zone"`
		Status  string     `json:"status"`
		OrderID *uuid.UUID `json:"orderId,omitempty"`
	}
)

// statusAliases maps every accepted spelling to an order status. The legacy
// names come from the first mobile clients.
var statusAliases = map[string]order.Status{
	"pending":      order.Pending,
	"nouveau":      order.Pending,
	"confirmed":    order.Confirmed,
	"confirme":     order.Confirmed,
	"indelivery":   order.InDelivery,
	"en_livraison": order.InDelivery,
	"delivered":    order.Delivered,
	"livre":        order.Delivered,
	"cancelled":    order.Cancelled,
	"annule":       order.Cancelled,
}

func parseStatus(s string) (order.Status, error) {
	status, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return order.Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not an order status", s))
	}
	return status, nil
}

func toKernelUUID(name string, id uuid.UUID) (kernel.UUID, error) {
	parsed, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return parsed, nil
}

func optionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func newOrderResponse(o queries.OrderResponse) orderResponse {
	items := make([]lineItemResponse, 0, len(o.LineItems))
	for _, item := range o.LineItems {
		items = append(items, lineItemResponse{
			ProductRef: item.ProductRef,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.Int64(),
		})
	}

	return orderResponse{
		ID:            o.ID.Bytes(),
		ClientID:      o.ClientID.Bytes(),
		DistributorID: o.DistributorID.Bytes(),
		DriverID:      optionalUUID(o.DriverID),
		IsDelivery:    o.IsDelivery,
		LineItems:     items,
		DeliveryFee:   o.DeliveryFee.Int64(),
		Total:         o.Total.Int64(),
		Status:        o.Status.String(),
		CancelReason:  o.CancelReason,
		CreatedAt:     o.CreatedAt,
		ConfirmedAt:   o.ConfirmedAt,
		CompletedAt:   o.CompletedAt,
		CancelledAt:   o.CancelledAt,
		Version:       o.Version,
	}
}

func newOrderResponses(orders []queries.OrderResponse) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderResponse(o))
	}
	return out
}

func newTransactionResponses(txs []queries.TransactionResponse) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionResponse{
			ID:             tx.ID.Bytes(),
			Type:           strings.ToLower(tx.Type.String()),
			Amount:         tx.Amount.Int64(),
			RelatedOrderID: optionalUUID(tx.RelatedOrderID),
			Description:    tx.Description,
			BalanceAfter:   tx.BalanceAfter.Int64(),
			CreatedAt:      tx.CreatedAt,
		})
	}
	return out
}

func newDriverResponse(d queries.DriverResponse) driverResponse {
	return driverResponse{
		ID:      d.ID.Bytes(),
		Name:    d.Name,
		Zone:    d.Zone,
		Status:  d.Status.String(),
		OrderID: optionalUUID(d.OrderID),
	}
}
