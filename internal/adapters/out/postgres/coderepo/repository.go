// Package coderepo persists validation codes. At most one live code per order is
// enforced by a partial unique index, so two concurrent issuers cannot both win.
package coderepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/adapters/out/postgres/pgerrs"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/validationcode"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CodeDTO is the validation_codes row. Seq orders codes of one order by issue time.
type CodeDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_validation_codes_live,where:status <> 2 AND status <> 3"`
	Value          string    `gorm:"type:char(6);not null"`
	Role           int       `gorm:"type:smallint;not null"`
	Status         int       `gorm:"type:smallint;not null"`
	FailedAttempts int       `gorm:"not null;default:0"`
	IssuedAt       time.Time `gorm:"not null"`
	ConsumedAt     *time.Time
	Version        int   `gorm:"not null;default:0"`
	Seq            int64 `gorm:"type:bigserial;<-:false"`
}

func (CodeDTO) TableName() string {
	return "validation_codes"
}

func fromDomain(c *validationcode.Code) CodeDTO {
	s := c.Snapshot()
	return CodeDTO{
		ID:             s.ID.Bytes(),
		OrderID:        s.OrderID.Bytes(),
		Value:          s.Value,
		Role:           int(s.Role),
		Status:         int(s.Status),
		FailedAttempts: s.FailedAttempts,
		IssuedAt:       s.IssuedAt,
		ConsumedAt:     s.ConsumedAt,
		Version:        s.Version,
	}
}

func toDomain(dto CodeDTO) (*validationcode.Code, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return validationcode.RestoreCode(validationcode.Snapshot{
		ID:             id,
		OrderID:        orderID,
		Value:          dto.Value,
		Role:           validationcode.Role(dto.Role),
		Status:         validationcode.Status(dto.Status),
		FailedAttempts: dto.FailedAttempts,
		IssuedAt:       dto.IssuedAt,
		ConsumedAt:     dto.ConsumedAt,
		Version:        dto.Version,
	})
}

// GormCodeRepository implements ports.ValidationCodeRepository using GORM.
type GormCodeRepository struct {
	db *gorm.DB
}

func NewGormCodeRepository(db *gorm.DB) *GormCodeRepository {
	return &GormCodeRepository{db: db}
}

func (r *GormCodeRepository) Add(ctx context.Context, code *validationcode.Code) error {
	if err := code.Validate(); err != nil {
		return err
	}

	dto := fromDomain(code)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerrs.Translate(err, "validation code", code.OrderID().String())
	}
	return nil
}

// Update is the compare-and-swap on the code version.
func (r *GormCodeRepository) Update(ctx context.Context, code *validationcode.Code) error {
	if err := code.Validate(); err != nil {
		return err
	}

	dto := fromDomain(code)
	result := r.db.WithContext(ctx).
		Model(&CodeDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"status":          dto.Status,
			"failed_attempts": dto.FailedAttempts,
			"consumed_at":     dto.ConsumedAt,
			"version":         dto.Version + 1,
		})
	if result.Error != nil {
		return pgerrs.Translate(result.Error, "validation code", code.ID().String())
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("validation code", code.ID().String())
	}

	code.AdvanceVersion()
	return nil
}

func (r *GormCodeRepository) GetLatest(ctx context.Context, orderID kernel.UUID) (*validationcode.Code, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto CodeDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("seq DESC").
		First(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("validation code", orderID.String())
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}
