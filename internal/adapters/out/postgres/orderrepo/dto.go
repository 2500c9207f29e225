// Package orderrepo persists buyer orders and the market listings they can be placed against.
package orderrepo

import (
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/listing"
	"agritrade/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WindowDTO is an embedded time window.
type WindowDTO struct {
	Start time.Time `gorm:"type:timestamptz;not null"`
	End   time.Time `gorm:"type:timestamptz;not null"`
}

func windowFromDomain(w kernel.TimeWindow) WindowDTO {
	return WindowDTO{Start: w.Start(), End: w.End()}
}

func (w WindowDTO) toDomain() (kernel.TimeWindow, error) {
	return kernel.NewTimeWindow(w.Start, w.End)
}

// OrderDTO maps orders with indexes for the buyer and cooperative inboxes.
type OrderDTO struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BuyerID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	CooperativeID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ListingID        *uuid.UUID      `gorm:"type:uuid;index"`
	Crop             string          `gorm:"type:varchar(100);not null"`
	QuantityKg       decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	PriceOffer       decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	DeliveryLocation string          `gorm:"type:varchar(255);not null"`
	DeliveryWindow   WindowDTO       `gorm:"embedded;embeddedPrefix:delivery_"`
	Status           int             `gorm:"type:smallint;not null;index"`
	CreatedAt        time.Time       `gorm:"type:timestamptz;not null"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type ListingDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CooperativeID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Crop          string          `gorm:"type:varchar(100);not null"`
	QuantityKg    decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	MinimumPrice  decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Window        WindowDTO       `gorm:"embedded;embeddedPrefix:window_"`
	Status        int             `gorm:"type:smallint;not null;index"`
}

func (ListingDTO) TableName() string {
	return "listings"
}

func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:               o.ID().Bytes(),
		BuyerID:          o.BuyerID().Bytes(),
		CooperativeID:    o.CooperativeID().Bytes(),
		ListingID:        kernel.GooglePtr(o.ListingID()),
		Crop:             o.Crop(),
		QuantityKg:       o.QuantityKg(),
		PriceOffer:       o.PriceOffer(),
		DeliveryLocation: o.DeliveryLocation(),
		DeliveryWindow:   windowFromDomain(o.DeliveryWindow()),
		Status:           int(o.Status()),
		CreatedAt:        o.CreatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}
	cooperativeID, err := kernel.UUIDFromBytes(dto.CooperativeID[:])
	if err != nil {
		return nil, err
	}
	listingID, err := kernel.UUIDPtrFromGoogle(dto.ListingID)
	if err != nil {
		return nil, err
	}
	window, err := dto.DeliveryWindow.toDomain()
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Params{
		ID:               id,
		BuyerID:          buyerID,
		CooperativeID:    cooperativeID,
		ListingID:        listingID,
		Crop:             dto.Crop,
		QuantityKg:       dto.QuantityKg,
		PriceOffer:       dto.PriceOffer,
		DeliveryLocation: dto.DeliveryLocation,
		DeliveryWindow:   window,
	}, order.Status(dto.Status), dto.CreatedAt)
}

func listingFromDomain(l *listing.Listing) ListingDTO {
	return ListingDTO{
		ID:            l.ID().Bytes(),
		CooperativeID: l.CooperativeID().Bytes(),
		Crop:          l.Crop(),
		QuantityKg:    l.QuantityKg(),
		MinimumPrice:  l.MinimumPrice(),
		Window:        windowFromDomain(l.Window()),
		Status:        int(l.Status()),
	}
}

func listingToDomain(dto ListingDTO) (*listing.Listing, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	cooperativeID, err := kernel.UUIDFromBytes(dto.CooperativeID[:])
	if err != nil {
		return nil, err
	}
	window, err := dto.Window.toDomain()
	if err != nil {
		return nil, err
	}

	return listing.RestoreListing(id, cooperativeID, dto.Crop, dto.QuantityKg, dto.MinimumPrice, window, listing.Status(dto.Status))
}
