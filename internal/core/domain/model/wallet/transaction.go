package wallet

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

const maxDescriptionLength = 255

// TransactionType tells whether money entered or left the account.
type TransactionType int

const (
	UnknownType TransactionType = iota
	Credit
	Debit
)

func (t TransactionType) String() string {
	switch t {
	case Credit:
		return "Credit"
	case Debit:
		return "Debit"
	case UnknownType:
		return "Unknown"
	default:
		return "Unknown"
	}
}

func (t TransactionType) Validate() error {
	if t != Credit && t != Debit {
		return errs.NewValueIsInvalidErrorWithCause("transaction type", fmt.Errorf("%d is not a valid type", t))
	}
	return nil
}

// Transaction is an immutable ledger line.
type Transaction struct {
	id             kernel.UUID
	accountID      kernel.UUID
	txType         TransactionType
	amount         kernel.Money
	relatedOrderID *kernel.UUID
	description    string
	balanceAfter   kernel.Money
	createdAt      time.Time
}

// TransactionSnapshot is the persisted form of a Transaction.
type TransactionSnapshot struct {
	ID             kernel.UUID
	AccountID      kernel.UUID
	Type           TransactionType
	Amount         kernel.Money
	RelatedOrderID *kernel.UUID
	Description    string
	BalanceAfter   kernel.Money
	CreatedAt      time.Time
}

// RestoreTransaction rebuilds a ledger line from storage.
func RestoreTransaction(s TransactionSnapshot) (*Transaction, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.AccountID.Validate(),
		s.Type.Validate(),
		validatePositive(s.Amount),
		s.BalanceAfter.Validate(),
	); err != nil {
		return nil, err
	}

	tx := &Transaction{
		id:           s.ID,
		accountID:    s.AccountID,
		txType:       s.Type,
		amount:       s.Amount,
		description:  s.Description,
		balanceAfter: s.BalanceAfter,
		createdAt:    s.CreatedAt.UTC(),
	}
	if s.RelatedOrderID != nil {
		orderID := *s.RelatedOrderID
		tx.relatedOrderID = &orderID
	}
	return tx, nil
}

func (t *Transaction) ID() kernel.UUID {
	return t.id
}

func (t *Transaction) AccountID() kernel.UUID {
	return t.accountID
}

func (t *Transaction) Type() TransactionType {
	return t.txType
}

func (t *Transaction) Amount() kernel.Money {
	return t.amount
}

// RelatedOrderID is set for settlement credits.
func (t *Transaction) RelatedOrderID() *kernel.UUID {
	if t.relatedOrderID == nil {
		return nil
	}
	id := *t.relatedOrderID
	return &id
}

func (t *Transaction) Description() string {
	return t.description
}

func (t *Transaction) BalanceAfter() kernel.Money {
	return t.balanceAfter
}

func (t *Transaction) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Transaction) Snapshot() TransactionSnapshot {
	return TransactionSnapshot{
		ID:             t.id,
		AccountID:      t.accountID,
		Type:           t.txType,
		Amount:         t.amount,
		RelatedOrderID: t.RelatedOrderID(),
		Description:    t.description,
		BalanceAfter:   t.balanceAfter,
		CreatedAt:      t.createdAt,
	}
}

func validatePositive(amount kernel.Money) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is not greater than 0", amount))
	}
	return nil
}

func normalizeDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if len(description) > maxDescriptionLength {
		return "", errs.NewValueIsOutOfRangeError("description length", len(description), 0, maxDescriptionLength)
	}
	return description, nil
}
