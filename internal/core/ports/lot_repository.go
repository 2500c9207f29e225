package ports

import (
	"context"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/lot"

	"github.com/shopspring/decimal"
)

type LotRepository interface {
	Add(ctx context.Context, aggregate *lot.Lot) error

	// Update writes the lot if its stored version still matches, and bumps the version.
	Update(ctx context.Context, aggregate *lot.Lot) error

	Get(ctx context.Context, id kernel.UUID) (*lot.Lot, error)

	// Reserve is the compare-and-swap used by the inventory ledger. It succeeds only while
	// the stored lot is Listed with expectedAvailableKg at the aggregate's version.
	Reserve(ctx context.Context, aggregate *lot.Lot, expectedAvailableKg decimal.Decimal) error

	// SumListedKg totals the available kilograms of a cooperative's listed lots of crop.
	SumListedKg(ctx context.Context, cooperativeID kernel.UUID, crop string) (decimal.Decimal, error)
}

type HarvestDeclarationRepository interface {
	Add(ctx context.Context, aggregate *lot.HarvestDeclaration) error

	Update(ctx context.Context, aggregate *lot.HarvestDeclaration) error

	Get(ctx context.Context, id kernel.UUID) (*lot.HarvestDeclaration, error)
}
