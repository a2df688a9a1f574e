// Package driverrepo persists drivers with GORM.
package driverrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerrs"
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DriverDTO is the drivers row. OrderID is set exactly while the driver is Occupied.
type DriverDTO struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name    string     `gorm:"type:varchar(255);not null"`
	Zone    string     `gorm:"type:varchar(255);not null;default:''"`
	Status  int        `gorm:"type:smallint;not null;index"`
	OrderID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Version int        `gorm:"not null;default:0"`
}

func (DriverDTO) TableName() string {
	return "drivers"
}

func fromDomain(d *driver.Driver) DriverDTO {
	var orderID *uuid.UUID
	if id := d.OrderID(); id != nil {
		raw := id.Bytes()
		orderID = &raw
	}

	return DriverDTO{
		ID:      d.ID().Bytes(),
		Name:    d.Name(),
		Zone:    d.Zone(),
		Status:  int(d.Status()),
		OrderID: orderID,
		Version: d.Version(),
	}
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var orderID *kernel.UUID
	if dto.OrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.OrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		orderID = &oID
	}

	return driver.RestoreDriver(id, dto.Name, dto.Zone, driver.Status(dto.Status), orderID, dto.Version)
}

// GormDriverRepository implements ports.DriverRepository using GORM.
type GormDriverRepository struct {
	db *gorm.DB
}

func NewGormDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

func (r *GormDriverRepository) Add(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerrs.Translate(err, "driver", aggregate.ID().String())
	}
	return nil
}

func (r *GormDriverRepository) Update(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&DriverDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"name":     dto.Name,
			"zone":     dto.Zone,
			"status":   dto.Status,
			"order_id": dto.OrderID,
			"version":  dto.Version + 1,
		})
	if result.Error != nil {
		return pgerrs.Translate(result.Error, "driver", aggregate.ID().String())
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("driver", aggregate.ID().String())
	}

	aggregate.AdvanceVersion()
	return nil
}

func (r *GormDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DriverDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAvailable returns Available drivers serving zone, sorted by name.
func (r *GormDriverRepository) GetAvailable(ctx context.Context, zone string) ([]*driver.Driver, error) {
	var dtos []DriverDTO
	if err := r.db.WithContext(ctx).
		Where("status = ?", int(driver.Available)).
		Order("name, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	drivers := make([]*driver.Driver, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		if d.ServesZone(zone) {
			drivers = append(drivers, d)
		}
	}

	return drivers, nil
}
