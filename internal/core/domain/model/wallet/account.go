package wallet

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"fulfillment/internal/core/domain/model/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrAccountIsNotConstructed = errors.New("Account must be created via NewAccount constructor")

	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Account is a ledger account. Its id is the owner id, so an owner has exactly one account.
type Account struct {
	ownerID  kernel.UUID
	balance  kernel.Money
	currency string

	kernel.Versioned
	events.Recorder

	guard guard.ConstructorGuard
}

// NewAccount opens an empty account in the given ISO 4217 currency.
func NewAccount(ownerID kernel.UUID, currency string) (*Account, error) {
	a := &Account{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		a.setOwnerID(ownerID),
		a.setCurrency(currency),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAccount rebuilds an account from storage.
func RestoreAccount(ownerID kernel.UUID, balance kernel.Money, currency string, version int) (*Account, error) {
	a := &Account{
		Versioned: kernel.RestoreVersioned(version),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setOwnerID(ownerID),
		a.setCurrency(currency),
		balance.Validate(),
	); err != nil {
		return nil, err
	}

	a.balance = balance
	return a, nil
}

func (a *Account) Validate() error {
	if a == nil {
		return ErrAccountIsNotConstructed
	}
	return a.guard.Validate(ErrAccountIsNotConstructed)
}

// ID is the owner id.
func (a *Account) ID() kernel.UUID {
	return a.ownerID
}

func (a *Account) OwnerID() kernel.UUID {
	return a.ownerID
}

func (a *Account) Balance() kernel.Money {
	return a.balance
}

func (a *Account) Currency() string {
	return a.currency
}

// Credit adds money and returns the ledger line for it. relatedOrderID tags settlement credits.
func (a *Account) Credit(
	amount kernel.Money,
	relatedOrderID *kernel.UUID,
	description string,
	now time.Time,
) (*Transaction, error) {
	if err := validatePositive(amount); err != nil {
		return nil, err
	}
	description, err := normalizeDescription(description)
	if err != nil {
		return nil, err
	}
	if a.balance > kernel.Money(math.MaxInt64)-amount {
		return nil, errs.NewValueIsOutOfRangeError("balance", fmt.Sprintf("%d + %d", a.balance, amount), 0, int64(math.MaxInt64))
	}

	a.balance += amount
	return a.newTransaction(Credit, amount, relatedOrderID, description, now), nil
}

// Debit removes money. It fails with InsufficientBalance when amount exceeds the
// balance and raises LowBalance when the balance left is below lowBalanceThreshold.
func (a *Account) Debit(
	amount kernel.Money,
	description string,
	lowBalanceThreshold kernel.Money,
	now time.Time,
) (*Transaction, error) {
	if err := validatePositive(amount); err != nil {
		return nil, err
	}
	description, err := normalizeDescription(description)
	if err != nil {
		return nil, err
	}
	if amount > a.balance {
		return nil, errs.NewInsufficientBalanceError(a.ownerID, a.balance.Int64(), amount.Int64())
	}

	a.balance -= amount
	tx := a.newTransaction(Debit, amount, nil, description, now)

	if a.balance < lowBalanceThreshold {
		ownerID := a.ownerID
		balance := a.balance
		a.Record(events.Event{
			ID:         kernel.NewUUID(),
			Type:       events.LowBalance,
			OwnerID:    &ownerID,
			Balance:    &balance,
			OccurredAt: now.UTC(),
		})
	}

	return tx, nil
}

func (a *Account) newTransaction(
	txType TransactionType,
	amount kernel.Money,
	relatedOrderID *kernel.UUID,
	description string,
	now time.Time,
) *Transaction {
	tx := &Transaction{
		id:           kernel.NewUUID(),
		accountID:    a.ownerID,
		txType:       txType,
		amount:       amount,
		description:  description,
		balanceAfter: a.balance,
		createdAt:    now.UTC(),
	}
	if relatedOrderID != nil {
		orderID := *relatedOrderID
		tx.relatedOrderID = &orderID
	}
	return tx
}

func (a *Account) setOwnerID(ownerID kernel.UUID) error {
	if err := ownerID.Validate(); err != nil {
		return err
	}
	a.ownerID = ownerID
	return nil
}

func (a *Account) setCurrency(currency string) error {
	if !currencyPattern.MatchString(currency) {
		return errs.NewValueIsInvalidErrorWithCause("currency", fmt.Errorf("%q is not an ISO 4217 code", currency))
	}
	a.currency = currency
	return nil
}
