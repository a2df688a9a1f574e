package queries

import (
	"context"

	"fulfillment/internal/pkg/errs"
)

// GetOrderQueryHandler returns an order to its client, its distributor or its driver.
type GetOrderQueryHandler struct {
	repos RepositoriesFactory
}

func NewGetOrderQueryHandler(repos RepositoriesFactory) GetOrderQueryHandler {
	return GetOrderQueryHandler{repos: repos}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	o, err := h.repos.Create().OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return OrderResponse{}, err
	}
	if !o.IsParty(query.ActorID()) {
		return OrderResponse{}, errs.NewActorNotAllowedError("view order", query.ActorID())
	}

	return newOrderResponse(o), nil
}
