// Package auditrepo appends audit records. Rows are never updated.
package auditrepo

import (
	"context"
	"time"

	"agritrade/internal/core/domain/model/audit"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RecordDTO struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Action     string            `gorm:"type:varchar(64);not null;index"`
	ActorID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	Role       int               `gorm:"type:smallint;not null"`
	EntityID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb"`
	OccurredAt time.Time         `gorm:"type:timestamptz;not null;index"`
}

func (RecordDTO) TableName() string {
	return "audit_records"
}

type GormAuditRepository struct {
	db *gorm.DB
}

func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

func (r *GormAuditRepository) Add(ctx context.Context, record *audit.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := RecordDTO{
		ID:         record.ID().Bytes(),
		Action:     record.Action(),
		ActorID:    record.ActorID().Bytes(),
		Role:       int(record.Role()),
		EntityID:   record.EntityID().Bytes(),
		Metadata:   datatypes.JSONMap(record.Metadata()),
		OccurredAt: record.OccurredAt(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}
