// Package outboxrepo stores domain events in the outbox table. The relay reads
// batches with FOR UPDATE SKIP LOCKED so that two relays never send the same row
// at the same time.
package outboxrepo

import (
	"context"
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/events"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageDTO is an outbox row. Payload is the JSON form of events.Event.
type MessageDTO struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Type        string         `gorm:"type:varchar(64);not null"`
	Key         string         `gorm:"type:varchar(64);not null"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null"`
	OccurredAt  time.Time      `gorm:"not null"`
	PublishedAt *time.Time     `gorm:"index"`
	Seq         int64          `gorm:"type:bigserial;<-:false;index"`
}

func (MessageDTO) TableName() string {
	return "outbox_messages"
}

func fromDomain(e events.Event) (MessageDTO, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return MessageDTO{}, err
	}

	return MessageDTO{
		ID:         e.ID.Bytes(),
		Type:       string(e.Type),
		Key:        e.Key(),
		Payload:    datatypes.JSON(payload),
		OccurredAt: e.OccurredAt,
	}, nil
}

func toDomain(dto MessageDTO) (events.Event, error) {
	var e events.Event
	if err := json.Unmarshal(dto.Payload, &e); err != nil {
		return events.Event{}, err
	}
	return e, nil
}

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

func (r *GormOutboxRepository) Add(ctx context.Context, evs ...events.Event) error {
	if len(evs) == 0 {
		return nil
	}

	dtos := make([]MessageDTO, 0, len(evs))
	for _, e := range evs {
		dto, err := fromDomain(e)
		if err != nil {
			return err
		}
		dtos = append(dtos, dto)
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// GetUnpublished locks up to limit unpublished rows, oldest first. Rows locked by
// another relay are skipped.
func (r *GormOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]events.Event, error) {
	query := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("published_at IS NULL").
		Order("seq")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []MessageDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	evs := make([]events.Event, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		evs = append(evs, e)
	}
	return evs, nil
}

func (r *GormOutboxRepository) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	return r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("id IN ? AND published_at IS NULL", raw).
		Update("published_at", at.UTC()).Error
}

func (r *GormOutboxRepository) DeletePublishedBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("published_at IS NOT NULL AND published_at < ?", before.UTC()).
		Delete(&MessageDTO{})
	return result.RowsAffected, result.Error
}
