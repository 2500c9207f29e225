// Package outboxrepo stores domain events next to the state change that produced them.
// The unit of work appends events inside its transaction; the relay job reads them back.
package outboxrepo

import (
	"context"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventDTO struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Name        string            `gorm:"type:varchar(64);not null"`
	AggregateID uuid.UUID         `gorm:"type:uuid;not null;index"`
	OccurredAt  time.Time         `gorm:"type:timestamptz;not null"`
	Payload     datatypes.JSONMap `gorm:"type:jsonb"`
	Seq         int64             `gorm:"autoIncrement;not null;uniqueIndex"`
	ProcessedAt *time.Time        `gorm:"type:timestamptz;index"`
}

func (EventDTO) TableName() string {
	return "outbox_events"
}

type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Append inserts events in the order given.
func (r *GormOutboxRepository) Append(ctx context.Context, events []kernel.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, EventDTO{
			ID:          e.ID.Bytes(),
			Name:        e.Name,
			AggregateID: e.AggregateID.Bytes(),
			OccurredAt:  e.OccurredAt,
			Payload:     datatypes.JSONMap(e.Payload),
		})
	}
	return r.db.WithContext(ctx).Omit("Seq").Create(&dtos).Error
}

// GetUnprocessed returns the oldest unpublished events, skipping rows held by another relay.
func (r *GormOutboxRepository) GetUnprocessed(ctx context.Context, limit int) ([]kernel.DomainEvent, error) {
	var dtos []EventDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("processed_at IS NULL").
		Order("seq").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	events := make([]kernel.DomainEvent, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		aggregateID, err := kernel.UUIDFromBytes(dto.AggregateID[:])
		if err != nil {
			return nil, err
		}
		events = append(events, kernel.DomainEvent{
			ID:          id,
			Name:        dto.Name,
			AggregateID: aggregateID,
			OccurredAt:  dto.OccurredAt,
			Payload:     map[string]any(dto.Payload),
		})
	}

	return events, nil
}

func (r *GormOutboxRepository) MarkProcessed(ctx context.Context, eventID kernel.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&EventDTO{}).
		Where("id = ? AND processed_at IS NULL", eventID.Bytes()).
		Update("processed_at", time.Now().UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("outbox event", eventID.String())
	}
	return nil
}
