package commands

import (
	"context"

	"fulfillment/internal/core/domain/services"
)

// WithdrawWalletCommandHandler debits an account.
//
// Returns errs.ErrInsufficientBalance when the amount exceeds the balance. A
// withdrawal that leaves the balance under the policy threshold raises LowBalance.
type WithdrawWalletCommandHandler struct {
	uowFactory WalletUoWFactory
	policy     Policy
}

func NewWithdrawWalletCommandHandler(uowFactory WalletUoWFactory, policy Policy) WithdrawWalletCommandHandler {
	return WithdrawWalletCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h WithdrawWalletCommandHandler) Handle(ctx context.Context, cmd WithdrawWalletCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := cmd.authorize("withdraw from wallet"); err != nil {
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
		if _, err := ledger.Withdraw(ctx, cmd.OwnerID(), cmd.Amount(), cmd.Description(), h.policy.now()); err != nil {
			return err
		}

		return uow.Commit(ctx)
	})
}
