package walletrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerrs"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/wallet"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWalletRepository implements ports.WalletRepository using GORM.
type GormWalletRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormWalletRepository(db *gorm.DB, tracker aggregateTracker) *GormWalletRepository {
	return &GormWalletRepository{db: db, tracker: tracker}
}

func (r *GormWalletRepository) AddAccount(ctx context.Context, account *wallet.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	dto := accountFromDomain(account)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerrs.Translate(err, "account", account.OwnerID().String())
	}

	r.tracker.TrackAggregate(account.OwnerID(), account)
	return nil
}

func (r *GormWalletRepository) UpdateAccount(ctx context.Context, account *wallet.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	dto := accountFromDomain(account)
	result := r.db.WithContext(ctx).
		Model(&AccountDTO{}).
		Where("owner_id = ? AND version = ?", dto.OwnerID, dto.Version).
		Updates(map[string]any{
			"balance": dto.Balance,
			"version": dto.Version + 1,
		})
	if result.Error != nil {
		return pgerrs.Translate(result.Error, "account", account.OwnerID().String())
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("account", account.OwnerID().String())
	}

	account.AdvanceVersion()
	r.tracker.TrackAggregate(account.OwnerID(), account)
	return nil
}

func (r *GormWalletRepository) GetAccount(ctx context.Context, ownerID kernel.UUID) (*wallet.Account, error) {
	if err := ownerID.Validate(); err != nil {
		return nil, err
	}

	var dto AccountDTO
	if err := r.db.WithContext(ctx).First(&dto, "owner_id = ?", ownerID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("account", ownerID.String())
		}
		return nil, err
	}

	return accountToDomain(dto)
}

func (r *GormWalletRepository) AddTransaction(ctx context.Context, tx *wallet.Transaction) error {
	dto := transactionFromDomain(tx)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		id := tx.AccountID().String()
		if related := tx.RelatedOrderID(); related != nil {
			id = related.String()
		}
		return pgerrs.Translate(err, "settlement", id)
	}
	return nil
}

func (r *GormWalletRepository) HasSettlement(ctx context.Context, orderID kernel.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&TransactionDTO{}).
		Where("related_order_id = ?", orderID.Bytes()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetTransactions lists an account's lines, newest first. A non-positive limit lists all.
func (r *GormWalletRepository) GetTransactions(
	ctx context.Context,
	ownerID kernel.UUID,
	limit int,
) ([]*wallet.Transaction, error) {
	query := r.db.WithContext(ctx).
		Where("account_id = ?", ownerID.Bytes()).
		Order("created_at DESC, seq DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []TransactionDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}
	return transactionsToDomain(dtos)
}

func (r *GormWalletRepository) GetTransactionsByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) ([]*wallet.Transaction, error) {
	var dtos []TransactionDTO
	if err := r.db.WithContext(ctx).
		Where("related_order_id = ?", orderID.Bytes()).
		Order("seq").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return transactionsToDomain(dtos)
}
