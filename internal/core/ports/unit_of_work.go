package ports

import (
	"context"
)

type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork scopes one database transaction. Events recorded by aggregates passed to
// its repositories are written to the outbox by Commit.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	Commit(ctx context.Context) error

	Rollback(ctx context.Context) error

	LotRepository() LotRepository
	HarvestDeclarationRepository() HarvestDeclarationRepository
	ListingRepository() ListingRepository
	OrderRepository() OrderRepository
	ContractRepository() ContractRepository
	TransporterRepository() TransporterRepository
	TransportRequestRepository() TransportRequestRepository
	StorageFacilityRepository() StorageFacilityRepository
	StorageBookingRepository() StorageBookingRepository
	LedgerRepository() LedgerRepository
	FarmerBalanceRepository() FarmerBalanceRepository
	AuditRepository() AuditRepository
	OutboxRepository() OutboxRepository
}
