package memory

import (
	"context"
	"sort"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/wallet"
	"fulfillment/internal/pkg/errs"
)

type walletRepository struct {
	uow *UnitOfWork
}

func (r *walletRepository) AddAccount(_ context.Context, account *wallet.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	r.uow.accounts.insert(account.OwnerID(), accountRowOf(account), account.Version(), r.uow.store.nextSeq())
	r.uow.track(account)
	return r.uow.written()
}

func (r *walletRepository) UpdateAccount(_ context.Context, account *wallet.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	r.uow.accounts.update(account.OwnerID(), accountRowOf(account), account.Version())
	r.uow.track(account)
	if err := r.uow.written(); err != nil {
		return err
	}

	account.AdvanceVersion()
	return nil
}

func (r *walletRepository) GetAccount(_ context.Context, ownerID kernel.UUID) (*wallet.Account, error) {
	e, ok := lookup(r.uow.store, r.uow.store.accounts, r.uow.accounts, ownerID)
	if !ok {
		return nil, errs.NewObjectNotFoundError("account", ownerID)
	}
	return wallet.RestoreAccount(e.id, e.value.Balance, e.value.Currency, e.version)
}

func (r *walletRepository) AddTransaction(_ context.Context, tx *wallet.Transaction) error {
	r.uow.transactions = append(r.uow.transactions, tx.Snapshot())
	return r.uow.written()
}

func (r *walletRepository) HasSettlement(_ context.Context, orderID kernel.UUID) (bool, error) {
	for _, s := range r.lines() {
		if s.RelatedOrderID != nil && *s.RelatedOrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (r *walletRepository) GetTransactions(
	_ context.Context,
	ownerID kernel.UUID,
	limit int,
) ([]*wallet.Transaction, error) {
	lines := r.lines()

	// lines are in append order; walk backwards for newest first
	result := make([]*wallet.Transaction, 0)
	for i := len(lines) - 1; i >= 0 && (limit <= 0 || len(result) < limit); i-- {
		if lines[i].AccountID != ownerID {
			continue
		}
		tx, err := wallet.RestoreTransaction(lines[i])
		if err != nil {
			return nil, err
		}
		result = append(result, tx)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt().After(result[j].CreatedAt())
	})
	return result, nil
}

func (r *walletRepository) GetTransactionsByOrder(_ context.Context, orderID kernel.UUID) ([]*wallet.Transaction, error) {
	result := make([]*wallet.Transaction, 0)
	for _, s := range r.lines() {
		if s.RelatedOrderID == nil || *s.RelatedOrderID != orderID {
			continue
		}
		tx, err := wallet.RestoreTransaction(s)
		if err != nil {
			return nil, err
		}
		result = append(result, tx)
	}
	return result, nil
}

// lines returns the committed ledger lines followed by the staged ones.
func (r *walletRepository) lines() []wallet.TransactionSnapshot {
	s := r.uow.store
	s.mu.Lock()
	lines := make([]wallet.TransactionSnapshot, 0, len(s.transactions)+len(r.uow.transactions))
	lines = append(lines, s.transactions...)
	s.mu.Unlock()

	return append(lines, r.uow.transactions...)
}

func accountRowOf(a *wallet.Account) accountRow {
	return accountRow{Balance: a.Balance(), Currency: a.Currency()}
}
