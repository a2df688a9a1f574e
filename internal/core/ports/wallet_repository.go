package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/wallet"
)

// WalletRepository persists ledger accounts and their append-only transactions.
type WalletRepository interface {
	AddAccount(ctx context.Context, account *wallet.Account) error

	// UpdateAccount is an optimistic write on the account version.
	UpdateAccount(ctx context.Context, account *wallet.Account) error

	// GetAccount returns errs.ObjectNotFoundError for owners without an account yet.
	GetAccount(ctx context.Context, ownerID kernel.UUID) (*wallet.Account, error)

	// AddTransaction appends a ledger line. A second line for the same
	// (related order, account) pair is refused by the store.
	AddTransaction(ctx context.Context, tx *wallet.Transaction) error

	// HasSettlement reports whether any ledger line references the order.
	HasSettlement(ctx context.Context, orderID kernel.UUID) (bool, error)

	// GetTransactions returns the ledger lines of an account, newest first.
	GetTransactions(ctx context.Context, ownerID kernel.UUID, limit int) ([]*wallet.Transaction, error)

	// GetTransactionsByOrder returns every ledger line tagged with the order.
	GetTransactionsByOrder(ctx context.Context, orderID kernel.UUID) ([]*wallet.Transaction, error)
}
