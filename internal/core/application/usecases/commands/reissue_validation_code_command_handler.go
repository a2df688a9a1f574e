package commands

import (
	"context"

	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// ReissueValidationCodeCommandHandler revokes the current code of an order
// waiting for its handoff and issues a new one for the same role.
type ReissueValidationCodeCommandHandler struct {
	uowFactory UoWFactory
	generator  ports.CodeGenerator
	policy     Policy
}

func NewReissueValidationCodeCommandHandler(
	uowFactory UoWFactory,
	generator ports.CodeGenerator,
	policy Policy,
) ReissueValidationCodeCommandHandler {
	return ReissueValidationCodeCommandHandler{
		uowFactory: uowFactory,
		generator:  generator,
		policy:     policy,
	}
}

func (h ReissueValidationCodeCommandHandler) Handle(ctx context.Context, cmd ReissueValidationCodeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return retryOnConflict(ctx, h.policy.MaxConflictRetries, func() error {
		uow := h.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
		if err != nil {
			return err
		}
		if err = o.AuthorizeReissue(cmd.ActorID()); err != nil {
			return err
		}

		codes := services.NewValidationCodeService(uow.ValidationCodeRepository(), h.generator, h.policy.MaxCodeAttempts)
		if _, err = codes.Issue(ctx, o.ID(), services.CodeRoleFor(o), h.policy.now()); err != nil {
			return err
		}

		return uow.Commit(ctx)
	})
}
