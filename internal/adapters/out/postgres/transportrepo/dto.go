// Package transportrepo persists transporters and their transport requests.
package transportrepo

import (
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/transport"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransporterDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name         string          `gorm:"type:varchar(255);not null"`
	CapacityKg   decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	LicensePlate string          `gorm:"type:varchar(20);not null"`
	Phone        string          `gorm:"type:varchar(32);not null"`
	Active       bool            `gorm:"not null;index"`
	Verified     bool            `gorm:"not null"`
}

func (TransporterDTO) TableName() string {
	return "transporters"
}

// RequestDTO is the transport_requests row, including assignment progress.
type RequestDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ContractID    *uuid.UUID      `gorm:"type:uuid;index"`
	Origin        string          `gorm:"type:varchar(255);not null"`
	Destination   string          `gorm:"type:varchar(255);not null"`
	LoadKg        decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	PickupStart   time.Time       `gorm:"type:timestamptz;not null"`
	PickupEnd     time.Time       `gorm:"type:timestamptz;not null"`
	Price         decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	TransporterID *uuid.UUID      `gorm:"type:uuid;index:idx_transport_requests_transporter_status"`
	Truck         string          `gorm:"type:varchar(20)"`
	DriverPhone   string          `gorm:"type:varchar(32)"`
	AssignedAt    *time.Time      `gorm:"type:timestamptz"`
	PickedUpAt    *time.Time      `gorm:"type:timestamptz"`
	DeliveredAt   *time.Time      `gorm:"type:timestamptz"`
	Notes         string          `gorm:"type:text"`
	ProofURL      string          `gorm:"type:text"`
	Status        int             `gorm:"type:smallint;not null;index:idx_transport_requests_transporter_status"`
	CreatedAt     time.Time       `gorm:"type:timestamptz;not null"`
}

func (RequestDTO) TableName() string {
	return "transport_requests"
}

func transporterFromDomain(t *transport.Transporter) TransporterDTO {
	return TransporterDTO{
		ID:           t.ID().Bytes(),
		Name:         t.Name(),
		CapacityKg:   t.CapacityKg(),
		LicensePlate: t.LicensePlate(),
		Phone:        t.Phone(),
		Active:       t.IsActive(),
		Verified:     t.IsVerified(),
	}
}

func transporterToDomain(dto TransporterDTO) (*transport.Transporter, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return transport.RestoreTransporter(id, dto.Name, dto.CapacityKg, dto.LicensePlate, dto.Phone, dto.Active, dto.Verified)
}

func requestFromDomain(r *transport.Request) RequestDTO {
	return RequestDTO{
		ID:            r.ID().Bytes(),
		ContractID:    kernel.GooglePtr(r.ContractID()),
		Origin:        r.Origin(),
		Destination:   r.Destination(),
		LoadKg:        r.LoadKg(),
		PickupStart:   r.PickupWindow().Start(),
		PickupEnd:     r.PickupWindow().End(),
		Price:         r.Price(),
		TransporterID: kernel.GooglePtr(r.TransporterID()),
		Truck:         r.Truck(),
		DriverPhone:   r.DriverPhone(),
		AssignedAt:    r.AssignedAt(),
		PickedUpAt:    r.PickedUpAt(),
		DeliveredAt:   r.DeliveredAt(),
		Notes:         r.Notes(),
		ProofURL:      r.ProofURL(),
		Status:        int(r.Status()),
		CreatedAt:     r.CreatedAt(),
	}
}

func requestToDomain(dto RequestDTO) (*transport.Request, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	contractID, err := kernel.UUIDPtrFromGoogle(dto.ContractID)
	if err != nil {
		return nil, err
	}
	transporterID, err := kernel.UUIDPtrFromGoogle(dto.TransporterID)
	if err != nil {
		return nil, err
	}
	window, err := kernel.NewTimeWindow(dto.PickupStart, dto.PickupEnd)
	if err != nil {
		return nil, err
	}

	return transport.RestoreRequest(transport.Params{
		ID:           id,
		ContractID:   contractID,
		Origin:       dto.Origin,
		Destination:  dto.Destination,
		LoadKg:       dto.LoadKg,
		PickupWindow: window,
		Price:        dto.Price,
	}, transport.Progress{
		Status:        transport.Status(dto.Status),
		TransporterID: transporterID,
		Truck:         dto.Truck,
		DriverPhone:   dto.DriverPhone,
		AssignedAt:    dto.AssignedAt,
		PickedUpAt:    dto.PickedUpAt,
		DeliveredAt:   dto.DeliveredAt,
		Notes:         dto.Notes,
		ProofURL:      dto.ProofURL,
		CreatedAt:     dto.CreatedAt,
	})
}
