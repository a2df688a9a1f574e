package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/wallet"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// Settlement is what the ledger needs to know about a delivered order.
type Settlement struct {
	OrderID       kernel.UUID
	DistributorID kernel.UUID
	DriverID      *kernel.UUID
	Total         kernel.Money
	DeliveryFee   kernel.Money
	IsDelivery    bool
}

// SettlementFor reads the settlement terms off an order.
func SettlementFor(o *order.Order) Settlement {
	return Settlement{
		OrderID:       o.ID(),
		DistributorID: o.DistributorID(),
		DriverID:      o.DriverID(),
		Total:         o.Total(),
		DeliveryFee:   o.DeliveryFee(),
		IsDelivery:    o.IsDelivery(),
	}
}

// Ledger moves money between ledger accounts. Accounts are opened lazily in the
// configured currency by their first credit.
//
// Business rules:
//   - an order is settled at most once
//   - settlement credits always sum to the order total
//   - a withdrawal never takes the balance below zero
type Ledger struct {
	wallets             ports.WalletRepository
	currency            string
	lowBalanceThreshold kernel.Money
}

// NewLedger builds a ledger on the wallet repository of a unit of work.
func NewLedger(wallets ports.WalletRepository, currency string, lowBalanceThreshold kernel.Money) *Ledger {
	return &Ledger{
		wallets:             wallets,
		currency:            currency,
		lowBalanceThreshold: lowBalanceThreshold,
	}
}

// Settle credits the distributor with the product amount and the driver with the
// delivery fee, one ledger line per account, all tagged with the order.
//
// Returns errs.ErrAlreadySettled if any ledger line already references the order.
// Accounts are written in owner id order so concurrent settlements lock rows in
// the same sequence.
func (l *Ledger) Settle(ctx context.Context, s Settlement, now time.Time) ([]*wallet.Transaction, error) {
	settled, err := l.wallets.HasSettlement(ctx, s.OrderID)
	if err != nil {
		return nil, err
	}
	if settled {
		return nil, fmt.Errorf("%w: order %s", errs.ErrAlreadySettled, s.OrderID)
	}

	productAmount, driverAmount, err := SplitSettlement(s.Total, s.DeliveryFee, s.IsDelivery)
	if err != nil {
		return nil, err
	}

	shares := make(map[kernel.UUID]kernel.Money, 2)
	if productAmount > 0 {
		shares[s.DistributorID] += productAmount
	}
	if driverAmount > 0 {
		if s.DriverID == nil {
			return nil, errs.NewValueIsRequiredError("driverId")
		}
		shares[*s.DriverID] += driverAmount
	}

	owners := make([]kernel.UUID, 0, len(shares))
	for owner := range shares {
		owners = append(owners, owner)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i].String() < owners[j].String() })

	orderID := s.OrderID
	txs := make([]*wallet.Transaction, 0, len(owners))
	for _, owner := range owners {
		description := "settlement of order " + orderID.String()
		tx, creditErr := l.credit(ctx, owner, shares[owner], &orderID, description, now)
		if creditErr != nil {
			return nil, creditErr
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

// TopUp credits an account, opening it if needed.
func (l *Ledger) TopUp(
	ctx context.Context,
	ownerID kernel.UUID,
	amount kernel.Money,
	description string,
	now time.Time,
) (*wallet.Transaction, error) {
	return l.credit(ctx, ownerID, amount, nil, description, now)
}

// Withdraw debits an account. It fails with errs.ErrInsufficientBalance when
// amount exceeds the balance, including for owners without an account.
func (l *Ledger) Withdraw(
	ctx context.Context,
	ownerID kernel.UUID,
	amount kernel.Money,
	description string,
	now time.Time,
) (*wallet.Transaction, error) {
	account, err := l.wallets.GetAccount(ctx, ownerID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, errs.NewInsufficientBalanceError(ownerID, 0, amount.Int64())
	}
	if err != nil {
		return nil, err
	}

	tx, err := account.Debit(amount, description, l.lowBalanceThreshold, now)
	if err != nil {
		return nil, err
	}

	if err = l.wallets.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	if err = l.wallets.AddTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Balance returns the account of an owner. Owners without an account get an
// empty, unsaved one.
func (l *Ledger) Balance(ctx context.Context, ownerID kernel.UUID) (*wallet.Account, error) {
	account, err := l.wallets.GetAccount(ctx, ownerID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return wallet.NewAccount(ownerID, l.currency)
	}
	return account, err
}

// Transactions returns up to limit ledger lines of an owner, newest first.
func (l *Ledger) Transactions(ctx context.Context, ownerID kernel.UUID, limit int) ([]*wallet.Transaction, error) {
	return l.wallets.GetTransactions(ctx, ownerID, limit)
}

func (l *Ledger) credit(
	ctx context.Context,
	ownerID kernel.UUID,
	amount kernel.Money,
	relatedOrderID *kernel.UUID,
	description string,
	now time.Time,
) (*wallet.Transaction, error) {
	account, isNew, err := l.openAccount(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	tx, err := account.Credit(amount, relatedOrderID, description, now)
	if err != nil {
		return nil, err
	}

	if isNew {
		err = l.wallets.AddAccount(ctx, account)
	} else {
		err = l.wallets.UpdateAccount(ctx, account)
	}
	if err != nil {
		return nil, err
	}

	if err = l.wallets.AddTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (l *Ledger) openAccount(ctx context.Context, ownerID kernel.UUID) (*wallet.Account, bool, error) {
	account, err := l.wallets.GetAccount(ctx, ownerID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		account, err = wallet.NewAccount(ownerID, l.currency)
		return account, true, err
	}
	if err != nil {
		return nil, false, err
	}
	if account.Currency() != l.currency {
		return nil, false, errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("account %s holds %s, ledger settles in %s", ownerID, account.Currency(), l.currency))
	}
	return account, false, nil
}
