package queries

import (
	"context"

	"fulfillment/internal/core/domain/services"
)

type GetAvailableDriversQueryHandler struct {
	repos RepositoriesFactory
}

func NewGetAvailableDriversQueryHandler(repos RepositoriesFactory) GetAvailableDriversQueryHandler {
	return GetAvailableDriversQueryHandler{repos: repos}
}

func (h GetAvailableDriversQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableDriversQuery,
) ([]DriverResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	drivers, err := services.NewDriverAssignmentService(h.repos.Create().DriverRepository()).
		FindAvailable(ctx, query.Zone())
	if err != nil {
		return nil, err
	}

	responses := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		responses = append(responses, newDriverResponse(d))
	}
	return responses, nil
}
