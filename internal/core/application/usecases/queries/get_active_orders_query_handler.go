package queries

import (
	"context"

	"fulfillment/internal/pkg/errs"
)

// GetActiveOrdersQueryHandler backs the distributor's work queue, oldest order first.
type GetActiveOrdersQueryHandler struct {
	repos RepositoriesFactory
}

func NewGetActiveOrdersQueryHandler(repos RepositoriesFactory) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{repos: repos}
}

func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if !query.ActorID().IsEqual(query.DistributorID()) {
		return nil, errs.NewActorNotAllowedError("list active orders", query.ActorID())
	}

	orders, err := h.repos.Create().OrderRepository().GetActiveByDistributor(ctx, query.DistributorID())
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, newOrderResponse(o))
	}
	return responses, nil
}
