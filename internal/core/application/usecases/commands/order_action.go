package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/validationcode"
)

// orderAction is the part shared by commands that an actor performs on an existing order.
type orderAction struct {
	orderID kernel.UUID
	actorID kernel.UUID
}

func newOrderAction(orderID, actorID kernel.UUID) (orderAction, error) {
	if err := errors.Join(orderID.Validate(), actorID.Validate()); err != nil {
		return orderAction{}, err
	}
	return orderAction{orderID: orderID, actorID: actorID}, nil
}

// OrderID returns the order the actor acts on.
func (a orderAction) OrderID() kernel.UUID {
	return a.orderID
}

// ActorID returns who performs the action. Permissions are checked by the order aggregate.
func (a orderAction) ActorID() kernel.UUID {
	return a.actorID
}

// handoff carries the code typed at pickup or delivery.
type handoff struct {
	orderAction
	code string
}

func newHandoff(orderID, actorID kernel.UUID, code string) (handoff, error) {
	action, actionErr := newOrderAction(orderID, actorID)
	if err := errors.Join(actionErr, validationcode.ValidateValue(code)); err != nil {
		return handoff{}, err
	}
	return handoff{orderAction: action, code: code}, nil
}

// Code returns the presented validation code.
func (h handoff) Code() string {
	return h.code
}
