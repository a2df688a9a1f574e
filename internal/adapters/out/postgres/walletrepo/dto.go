// Package walletrepo persists ledger accounts and their append-only transactions.
package walletrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/wallet"

	"github.com/google/uuid"
)

// AccountDTO is the wallet_accounts row, keyed by owner.
type AccountDTO struct {
	OwnerID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Balance  int64     `gorm:"not null;check:chk_wallet_accounts_balance,balance >= 0"`
	Currency string    `gorm:"type:char(3);not null"`
	Version  int       `gorm:"not null;default:0"`
}

func (AccountDTO) TableName() string {
	return "wallet_accounts"
}

// TransactionDTO is a ledger line. The unique index on (related order, account)
// makes a second settlement of the same order fail; NULL related orders never clash.
type TransactionDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AccountID      uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_wallet_transactions_settlement,priority:2"`
	Type           int        `gorm:"type:smallint;not null"`
	Amount         int64      `gorm:"not null"`
	RelatedOrderID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_wallet_transactions_settlement,priority:1"`
	Description    string     `gorm:"type:varchar(255);not null;default:''"`
	BalanceAfter   int64      `gorm:"not null"`
	CreatedAt      time.Time  `gorm:"not null"`
	Seq            int64      `gorm:"type:bigserial;<-:false"`
}

func (TransactionDTO) TableName() string {
	return "wallet_transactions"
}

func accountFromDomain(a *wallet.Account) AccountDTO {
	return AccountDTO{
		OwnerID:  a.OwnerID().Bytes(),
		Balance:  a.Balance().Int64(),
		Currency: a.Currency(),
		Version:  a.Version(),
	}
}

func accountToDomain(dto AccountDTO) (*wallet.Account, error) {
	ownerID, err := kernel.UUIDFromBytes(dto.OwnerID[:])
	if err != nil {
		return nil, err
	}
	return wallet.RestoreAccount(ownerID, kernel.Money(dto.Balance), dto.Currency, dto.Version)
}

func transactionFromDomain(tx *wallet.Transaction) TransactionDTO {
	s := tx.Snapshot()

	var relatedOrderID *uuid.UUID
	if s.RelatedOrderID != nil {
		raw := s.RelatedOrderID.Bytes()
		relatedOrderID = &raw
	}

	return TransactionDTO{
		ID:             s.ID.Bytes(),
		AccountID:      s.AccountID.Bytes(),
		Type:           int(s.Type),
		Amount:         s.Amount.Int64(),
		RelatedOrderID: relatedOrderID,
		Description:    s.Description,
		BalanceAfter:   s.BalanceAfter.Int64(),
		CreatedAt:      s.CreatedAt,
	}
}

func transactionToDomain(dto TransactionDTO) (*wallet.Transaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	accountID, err := kernel.UUIDFromBytes(dto.AccountID[:])
	if err != nil {
		return nil, err
	}

	var relatedOrderID *kernel.UUID
	if dto.RelatedOrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.RelatedOrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		relatedOrderID = &oID
	}

	return wallet.RestoreTransaction(wallet.TransactionSnapshot{
		ID:             id,
		AccountID:      accountID,
		Type:           wallet.TransactionType(dto.Type),
		Amount:         kernel.Money(dto.Amount),
		RelatedOrderID: relatedOrderID,
		Description:    dto.Description,
		BalanceAfter:   kernel.Money(dto.BalanceAfter),
		CreatedAt:      dto.CreatedAt,
	})
}

func transactionsToDomain(dtos []TransactionDTO) ([]*wallet.Transaction, error) {
	txs := make([]*wallet.Transaction, 0, len(dtos))
	for _, dto := range dtos {
		tx, err := transactionToDomain(dto)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
