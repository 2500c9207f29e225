package ports

import (
	"context"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/storage"
	"agritrade/internal/core/domain/model/transport"

	"github.com/shopspring/decimal"
)

type TransporterRepository interface {
	Add(ctx context.Context, aggregate *transport.Transporter) error

	Update(ctx context.Context, aggregate *transport.Transporter) error

	Get(ctx context.Context, id kernel.UUID) (*transport.Transporter, error)

	GetAllActive(ctx context.Context) ([]*transport.Transporter, error)
}

type TransportRequestRepository interface {
	Add(ctx context.Context, aggregate *transport.Request) error

	Update(ctx context.Context, aggregate *transport.Request) error

	Get(ctx context.Context, id kernel.UUID) (*transport.Request, error)

	GetByContractID(ctx context.Context, contractID kernel.UUID) ([]*transport.Request, error)

	// GetByTransporter returns the transporter's requests in any of statuses.
	GetByTransporter(ctx context.Context, transporterID kernel.UUID, statuses []transport.Status) ([]*transport.Request, error)

	// CommittedLoadKg sums the load of the transporter's requests that occupy its truck.
	CommittedLoadKg(ctx context.Context, transporterID kernel.UUID) (decimal.Decimal, error)
}

type StorageFacilityRepository interface {
	Add(ctx context.Context, aggregate *storage.Facility) error

	Update(ctx context.Context, aggregate *storage.Facility) error

	// Get locks the facility row for the rest of the transaction.
	Get(ctx context.Context, id kernel.UUID) (*storage.Facility, error)
}

type StorageBookingRepository interface {
	Add(ctx context.Context, aggregate *storage.Booking) error

	Update(ctx context.Context, aggregate *storage.Booking) error

	Get(ctx context.Context, id kernel.UUID) (*storage.Booking, error)

	// GetOpenByContractID returns the contract's Reserved and Active bookings.
	GetOpenByContractID(ctx context.Context, contractID kernel.UUID) ([]*storage.Booking, error)

	// GetDue returns Reserved bookings whose window has started and open bookings whose window has ended.
	GetDue(ctx context.Context, now time.Time, limit int) ([]*storage.Booking, error)
}
