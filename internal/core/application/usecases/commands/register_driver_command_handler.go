package commands

import (
	"context"

	"fulfillment/internal/core/domain/services"
)

// RegisterDriverCommandHandler handles the business logic for driver registration.
// New drivers are Available.
//
// Example:
//
//	handler := NewRegisterDriverCommandHandler(uowFactory)
//	cmd, _ := NewRegisterDriverCommand(kernel.NewUUID(), "Awa Diop", "plateau")
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("driver registration failed: %w", err)
//	}
type RegisterDriverCommandHandler struct {
	uowFactory DriverUoWFactory
}

// NewRegisterDriverCommandHandler creates a handler for driver registration.
// Requires a DriverUoWFactory for transactional persistence operations.
func NewRegisterDriverCommandHandler(uowFactory DriverUoWFactory) RegisterDriverCommandHandler {
	return RegisterDriverCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the driver registration command.
// Automatically rolls back on any error to prevent partial data.
func (h RegisterDriverCommandHandler) Handle(ctx context.Context, cmd RegisterDriverCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	assignment := services.NewDriverAssignmentService(uow.DriverRepository())
	if _, err := assignment.Register(ctx, cmd.DriverID(), cmd.Name(), cmd.Zone()); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
