package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/validationcode"
	"fulfillment/internal/core/domain/services"
)

type GetValidationCodeQueryResponse struct {
	Code     string
	Role     validationcode.Role
	IssuedAt time.Time
}

// GetValidationCodeQueryHandler returns the Active code of an order. Only the
// client of the order may see it.
type GetValidationCodeQueryHandler struct {
	repos RepositoriesFactory
}

func NewGetValidationCodeQueryHandler(repos RepositoriesFactory) GetValidationCodeQueryHandler {
	return GetValidationCodeQueryHandler{repos: repos}
}

func (h GetValidationCodeQueryHandler) Handle(
	ctx context.Context,
	query GetValidationCodeQuery,
) (GetValidationCodeQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetValidationCodeQueryResponse{}, err
	}

	repos := h.repos.Create()
	o, err := repos.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return GetValidationCodeQueryResponse{}, err
	}
	if err = o.AuthorizeCodeDisplay(query.ActorID()); err != nil {
		return GetValidationCodeQueryResponse{}, err
	}

	code, err := services.NewValidationCodeService(repos.ValidationCodeRepository(), nil, 0).Active(ctx, o.ID())
	if err != nil {
		return GetValidationCodeQueryResponse{}, err
	}

	return GetValidationCodeQueryResponse{
		Code:     code.Value(),
		Role:     code.Role(),
		IssuedAt: code.IssuedAt(),
	}, nil
}
