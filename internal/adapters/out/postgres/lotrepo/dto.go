// Package lotrepo persists inventory lots and the harvest declarations that turn into them.
package lotrepo

import (
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/lot"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotDTO is the lots row. Version backs the compare-and-swap used by reservations.
type LotDTO struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CooperativeID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_lots_cooperative_crop"`
	FarmerID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	Crop                string          `gorm:"type:varchar(100);not null;index:idx_lots_cooperative_crop"`
	QuantityKg          decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	AvailableKg         decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	QualityGrade        string          `gorm:"type:varchar(20);not null"`
	ExpectedHarvestDate time.Time       `gorm:"type:timestamptz"`
	Status              int             `gorm:"type:smallint;not null;index"`
	Verified            bool            `gorm:"not null"`
	Version             int64           `gorm:"not null"`
}

func (LotDTO) TableName() string {
	return "lots"
}

type HarvestDeclarationDTO struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FarmerID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	CooperativeID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Crop                string          `gorm:"type:varchar(100);not null"`
	ExpectedQuantityKg  decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	ExpectedHarvestDate time.Time       `gorm:"type:timestamptz;not null"`
	QualityGrade        string          `gorm:"type:varchar(20)"`
	Status              int             `gorm:"type:smallint;not null"`
	LotID               *uuid.UUID      `gorm:"type:uuid"`
	ReviewNote          string          `gorm:"type:text"`
}

func (HarvestDeclarationDTO) TableName() string {
	return "harvest_declarations"
}

func lotFromDomain(l *lot.Lot) LotDTO {
	return LotDTO{
		ID:                  l.ID().Bytes(),
		CooperativeID:       l.CooperativeID().Bytes(),
		FarmerID:            l.FarmerID().Bytes(),
		Crop:                l.Crop(),
		QuantityKg:          l.QuantityKg(),
		AvailableKg:         l.AvailableKg(),
		QualityGrade:        l.QualityGrade(),
		ExpectedHarvestDate: l.ExpectedHarvestDate(),
		Status:              int(l.Status()),
		Verified:            l.Verified(),
		Version:             l.Version(),
	}
}

func lotToDomain(dto LotDTO) (*lot.Lot, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	cooperativeID, err := kernel.UUIDFromBytes(dto.CooperativeID[:])
	if err != nil {
		return nil, err
	}
	farmerID, err := kernel.UUIDFromBytes(dto.FarmerID[:])
	if err != nil {
		return nil, err
	}

	return lot.RestoreLot(
		id,
		cooperativeID,
		farmerID,
		dto.Crop,
		dto.QuantityKg,
		dto.AvailableKg,
		dto.QualityGrade,
		dto.ExpectedHarvestDate,
		lot.Status(dto.Status),
		dto.Verified,
		dto.Version,
	)
}

func declarationFromDomain(d *lot.HarvestDeclaration) HarvestDeclarationDTO {
	return HarvestDeclarationDTO{
		ID:                  d.ID().Bytes(),
		FarmerID:            d.FarmerID().Bytes(),
		CooperativeID:       d.CooperativeID().Bytes(),
		Crop:                d.Crop(),
		ExpectedQuantityKg:  d.ExpectedQuantityKg(),
		ExpectedHarvestDate: d.ExpectedHarvestDate(),
		QualityGrade:        d.QualityGrade(),
		Status:              int(d.Status()),
		LotID:               kernel.GooglePtr(d.LotID()),
		ReviewNote:          d.ReviewNote(),
	}
}

func declarationToDomain(dto HarvestDeclarationDTO) (*lot.HarvestDeclaration, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	farmerID, err := kernel.UUIDFromBytes(dto.FarmerID[:])
	if err != nil {
		return nil, err
	}
	cooperativeID, err := kernel.UUIDFromBytes(dto.CooperativeID[:])
	if err != nil {
		return nil, err
	}
	lotID, err := kernel.UUIDPtrFromGoogle(dto.LotID)
	if err != nil {
		return nil, err
	}

	return lot.RestoreHarvestDeclaration(
		id, farmerID, cooperativeID,
		dto.Crop,
		dto.ExpectedQuantityKg,
		dto.ExpectedHarvestDate,
		dto.QualityGrade,
		lot.DeclarationStatus(dto.Status),
		lotID,
		dto.ReviewNote,
	)
}
