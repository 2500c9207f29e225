package ports

import (
	"context"
	"time"

	"agritrade/internal/core/domain/model/contract"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/listing"
	"agritrade/internal/core/domain/model/order"
)

type OrderRepository interface {
	Add(ctx context.Context, aggregate *order.Order) error

	Update(ctx context.Context, aggregate *order.Order) error

	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate locks the order row until the transaction ends. Handlers that
	// move an order or form a contract from it read it this way.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

type ListingRepository interface {
	Add(ctx context.Context, aggregate *listing.Listing) error

	Update(ctx context.Context, aggregate *listing.Listing) error

	Get(ctx context.Context, id kernel.UUID) (*listing.Listing, error)

	// GetExpired returns active listings whose window ended before now.
	GetExpired(ctx context.Context, now time.Time, limit int) ([]*listing.Listing, error)
}

type ContractRepository interface {
	Add(ctx context.Context, aggregate *contract.Contract) error

	// Update persists status changes. Contract lots never change after formation.
	Update(ctx context.Context, aggregate *contract.Contract) error

	Get(ctx context.Context, id kernel.UUID) (*contract.Contract, error)

	// GetByOrderID returns errs.ErrObjectNotFound when the order has no contract yet.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*contract.Contract, error)
}
