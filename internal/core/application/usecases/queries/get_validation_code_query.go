package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetValidationCodeQueryIsNotConstructed = errors.New(
	"GetValidationCodeQuery must be created via NewGetValidationCodeQuery constructor",
)

// GetValidationCodeQuery reads the code the client shows at handoff.
type GetValidationCodeQuery struct {
	orderID kernel.UUID
	actorID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetValidationCodeQuery(orderID, actorID kernel.UUID) (GetValidationCodeQuery, error) {
	if err := errors.Join(orderID.Validate(), actorID.Validate()); err != nil {
		return GetValidationCodeQuery{}, err
	}
	return GetValidationCodeQuery{orderID: orderID, actorID: actorID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetValidationCodeQuery) Validate() error {
	return q.guard.Validate(ErrGetValidationCodeQueryIsNotConstructed)
}

func (q GetValidationCodeQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetValidationCodeQuery) ActorID() kernel.UUID {
	return q.actorID
}
