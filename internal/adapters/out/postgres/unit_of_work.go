// Package postgres provides the GORM unit of work that spans every repository of the pipeline.
//
// Repositories handed out by a GormUnitOfWork run inside its transaction once Begin was
// called and report each aggregate they write through TrackAggregate. Commit appends the
// domain events of the tracked aggregates to the outbox in the same transaction, so a
// rolled-back operation never emits events.
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Add(ctx, order); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
package postgres

import (
	"cmp"
	"context"
	"slices"

	"agritrade/internal/adapters/out/postgres/auditrepo"
	"agritrade/internal/adapters/out/postgres/contractrepo"
	"agritrade/internal/adapters/out/postgres/lotrepo"
	"agritrade/internal/adapters/out/postgres/orderrepo"
	"agritrade/internal/adapters/out/postgres/outboxrepo"
	"agritrade/internal/adapters/out/postgres/settlementrepo"
	"agritrade/internal/adapters/out/postgres/storagerepo"
	"agritrade/internal/adapters/out/postgres/transportrepo"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// eventSource is implemented by aggregates embedding kernel.EventRecorder.
type eventSource interface {
	DomainEvents() []kernel.DomainEvent
	ClearDomainEvents()
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create returns a fresh unit of work. Instances are not safe for concurrent use.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the aggregates written in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it twice keeps the first transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit writes the pending domain events to the outbox and commits. Events are
// cleared from the aggregates only after the commit succeeded.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	sources, events := uow.pendingEvents()
	if err := outboxrepo.NewGormOutboxRepository(uow.tx).Append(ctx, events); err != nil {
		return err
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return err
	}

	for _, s := range sources {
		s.ClearDomainEvents()
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Rollback discards the transaction. It returns gorm.ErrInvalidTransaction when
// nothing is open, which is the case after a successful Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// TrackAggregate registers an aggregate written by one of the repositories.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// pendingEvents collects the events of every tracked aggregate once, oldest first.
func (uow *GormUnitOfWork) pendingEvents() ([]eventSource, []kernel.DomainEvent) {
	seen := make(map[eventSource]struct{}, len(uow.trackedAggregates))
	sources := make([]eventSource, 0, len(uow.trackedAggregates))
	events := make([]kernel.DomainEvent, 0)
	for _, tracked := range uow.trackedAggregates {
		s, ok := tracked.Aggregate.(eventSource)
		if !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		sources = append(sources, s)
		events = append(events, s.DomainEvents()...)
	}
	slices.SortStableFunc(events, func(a, b kernel.DomainEvent) int {
		return cmp.Compare(a.OccurredAt.UnixNano(), b.OccurredAt.UnixNano())
	})
	return sources, events
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) LotRepository() ports.LotRepository {
	return lotrepo.NewGormLotRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) HarvestDeclarationRepository() ports.HarvestDeclarationRepository {
	return lotrepo.NewGormHarvestDeclarationRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ListingRepository() ports.ListingRepository {
	return orderrepo.NewGormListingRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ContractRepository() ports.ContractRepository {
	return contractrepo.NewGormContractRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) TransporterRepository() ports.TransporterRepository {
	return transportrepo.NewGormTransporterRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) TransportRequestRepository() ports.TransportRequestRepository {
	return transportrepo.NewGormRequestRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) StorageFacilityRepository() ports.StorageFacilityRepository {
	return storagerepo.NewGormFacilityRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) StorageBookingRepository() ports.StorageBookingRepository {
	return storagerepo.NewGormBookingRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) LedgerRepository() ports.LedgerRepository {
	return settlementrepo.NewGormLedgerRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) FarmerBalanceRepository() ports.FarmerBalanceRepository {
	return settlementrepo.NewGormFarmerBalanceRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) AuditRepository() ports.AuditRepository {
	return auditrepo.NewGormAuditRepository(uow.conn())
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}
