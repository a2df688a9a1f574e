package commands

import (
	"context"

	"fulfillment/internal/core/domain/services"
)

// TopUpWalletCommandHandler credits an account, opening it on first use.
type TopUpWalletCommandHandler struct {
	uowFactory WalletUoWFactory
	policy     Policy
}

func NewTopUpWalletCommandHandler(uowFactory WalletUoWFactory, policy Policy) TopUpWalletCommandHandler {
	return TopUpWalletCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h TopUpWalletCommandHandler) Handle(ctx context.Context, cmd TopUpWalletCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := cmd.authorize("top up wallet"); err != nil {
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

		ledger := services.NewLedger(uow.WalletRepository(), h.policy.Currency, h.policy.LowBalanceThreshold)
		if _, err := ledger.TopUp(ctx, cmd.OwnerID(), cmd.Amount(), cmd.Description(), h.policy.now()); err != nil {
			return err
		}

		return uow.Commit(ctx)
	})
}
