// Package storagerepo persists storage facilities and capacity bookings.
package storagerepo

import (
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FacilityDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Location    string          `gorm:"type:varchar(255);not null"`
	CapacityKg  decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	AvailableKg decimal.Decimal `gorm:"type:numeric(14,3);not null"`
}

func (FacilityDTO) TableName() string {
	return "storage_facilities"
}

type BookingDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FacilityID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ContractID  *uuid.UUID      `gorm:"type:uuid;index"`
	LotID       *uuid.UUID      `gorm:"type:uuid"`
	QuantityKg  decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	WindowStart time.Time       `gorm:"type:timestamptz;not null"`
	WindowEnd   time.Time       `gorm:"type:timestamptz;not null;index"`
	Status      int             `gorm:"type:smallint;not null;index"`
}

func (BookingDTO) TableName() string {
	return "storage_bookings"
}

func facilityFromDomain(f *storage.Facility) FacilityDTO {
	return FacilityDTO{
		ID:          f.ID().Bytes(),
		Name:        f.Name(),
		Location:    f.Location(),
		CapacityKg:  f.CapacityKg(),
		AvailableKg: f.AvailableKg(),
	}
}

func facilityToDomain(dto FacilityDTO) (*storage.Facility, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return storage.RestoreFacility(id, dto.Name, dto.Location, dto.CapacityKg, dto.AvailableKg)
}

func bookingFromDomain(b *storage.Booking) BookingDTO {
	return BookingDTO{
		ID:          b.ID().Bytes(),
		FacilityID:  b.FacilityID().Bytes(),
		ContractID:  kernel.GooglePtr(b.ContractID()),
		LotID:       kernel.GooglePtr(b.LotID()),
		QuantityKg:  b.QuantityKg(),
		WindowStart: b.Window().Start(),
		WindowEnd:   b.Window().End(),
		Status:      int(b.Status()),
	}
}

func bookingToDomain(dto BookingDTO) (*storage.Booking, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	facilityID, err := kernel.UUIDFromBytes(dto.FacilityID[:])
	if err != nil {
		return nil, err
	}
	contractID, err := kernel.UUIDPtrFromGoogle(dto.ContractID)
	if err != nil {
		return nil, err
	}
	lotID, err := kernel.UUIDPtrFromGoogle(dto.LotID)
	if err != nil {
		return nil, err
	}
	window, err := kernel.NewTimeWindow(dto.WindowStart, dto.WindowEnd)
	if err != nil {
		return nil, err
	}

	return storage.RestoreBooking(storage.Params{
		ID:         id,
		FacilityID: facilityID,
		ContractID: contractID,
		LotID:      lotID,
		QuantityKg: dto.QuantityKg,
		Window:     window,
	}, storage.Status(dto.Status))
}
