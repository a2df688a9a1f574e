package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
)

type GetWalletBalanceQueryResponse struct {
	OwnerID  kernel.UUID
	Balance  kernel.Money
	Currency string
}

// GetWalletBalanceQueryHandler returns the balance of an account. Owners who
// never received money get a zero balance in the ledger currency.
type GetWalletBalanceQueryHandler struct {
	repos    RepositoriesFactory
	currency string
}

func NewGetWalletBalanceQueryHandler(repos RepositoriesFactory, currency string) GetWalletBalanceQueryHandler {
	return GetWalletBalanceQueryHandler{repos: repos, currency: currency}
}

func (h GetWalletBalanceQueryHandler) Handle(
	ctx context.Context,
	query GetWalletQuery,
) (GetWalletBalanceQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetWalletBalanceQueryResponse{}, err
	}
	if err := query.authorize(); err != nil {
		return GetWalletBalanceQueryResponse{}, err
	}

	ledger := services.NewLedger(h.repos.Create().WalletRepository(), h.currency, 0)
	account, err := ledger.Balance(ctx, query.OwnerID())
	if err != nil {
		return GetWalletBalanceQueryResponse{}, err
	}

	return GetWalletBalanceQueryResponse{
		OwnerID:  account.OwnerID(),
		Balance:  account.Balance(),
		Currency: account.Currency(),
	}, nil
}

// GetWalletTransactionsQueryHandler lists ledger lines, newest first.
type GetWalletTransactionsQueryHandler struct {
	repos    RepositoriesFactory
	currency string
}

func NewGetWalletTransactionsQueryHandler(
	repos RepositoriesFactory,
	currency string,
) GetWalletTransactionsQueryHandler {
	return GetWalletTransactionsQueryHandler{repos: repos, currency: currency}
}

func (h GetWalletTransactionsQueryHandler) Handle(
	ctx context.Context,
	query GetWalletQuery,
) ([]TransactionResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := query.authorize(); err != nil {
		return nil, err
	}

	ledger := services.NewLedger(h.repos.Create().WalletRepository(), h.currency, 0)
	txs, err := ledger.Transactions(ctx, query.OwnerID(), query.Limit())
	if err != nil {
		return nil, err
	}

	responses := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, newTransactionResponse(tx))
	}
	return responses, nil
}
