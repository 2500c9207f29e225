package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	postgres_adapter "agritrade/internal/adapters/out/postgres"
	"agritrade/internal/core/domain/model/contract"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/lot"
	"agritrade/internal/core/domain/model/order"
	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/core/domain/model/storage"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/core/ports"
	"agritrade/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the GORM unit of work and its repositories
// against a real PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(`TRUNCATE TABLE lots, harvest_declarations, listings, orders, contracts,
		contract_lots, transporters, transport_requests, storage_facilities, storage_bookings,
		ledger_entries, farmer_balances, audit_records, outbox_events`).Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "second Begin keeps the open transaction")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitAppendsEventsToOutbox() {
	ctx := context.Background()
	uow := suite.factory.Create()
	l := suite.createLot(decimal.NewFromInt(500))
	o := suite.createOrder()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.LotRepository().Add(ctx, l))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Empty(o.DomainEvents(), "events are cleared once committed")
	suite.Empty(l.DomainEvents())

	events, err := suite.factory.Create().OutboxRepository().GetUnprocessed(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(events, 2)
	suite.Equal("LotRegistered", events[0].Name)
	suite.Equal(l.ID(), events[0].AggregateID)
	suite.Equal("OrderCreated", events[1].Name)
	suite.Equal(o.ID(), events[1].AggregateID)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsRowsAndEvents() {
	ctx := context.Background()
	uow := suite.factory.Create()
	o := suite.createOrder()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	events, err := suite.factory.Create().OutboxRepository().GetUnprocessed(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(events)
	suite.Len(o.DomainEvents(), 1, "events stay on the aggregate when nothing was committed")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOutbox_MarkProcessed() {
	ctx := context.Background()
	suite.commit(func(uow ports.UnitOfWork) error {
		return uow.OrderRepository().Add(ctx, suite.createOrder())
	})

	outbox := suite.factory.Create().OutboxRepository()
	events, err := outbox.GetUnprocessed(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(events, 1)

	suite.Require().NoError(outbox.MarkProcessed(ctx, events[0].ID))
	suite.Require().ErrorIs(outbox.MarkProcessed(ctx, events[0].ID), errs.ErrObjectNotFound)

	events, err = outbox.GetUnprocessed(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(events)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestLotRepository_ReserveIsCompareAndSwap() {
	ctx := context.Background()
	l := suite.createLot(decimal.NewFromInt(800))
	suite.commit(func(uow ports.UnitOfWork) error {
		return uow.LotRepository().Add(ctx, l)
	})

	first, second := suite.factory.Create(), suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	defer func() { _ = first.Rollback(ctx) }()
	suite.Require().NoError(second.Begin(ctx))
	defer func() { _ = second.Rollback(ctx) }()

	copyA, err := first.LotRepository().Get(ctx, l.ID())
	suite.Require().NoError(err)
	copyB, err := second.LotRepository().Get(ctx, l.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(copyA.Reserve())
	suite.Require().NoError(first.LotRepository().Reserve(ctx, copyA, decimal.NewFromInt(800)))
	suite.Require().NoError(first.Commit(ctx))

	suite.Require().NoError(copyB.Reserve())
	err = second.LotRepository().Reserve(ctx, copyB, decimal.NewFromInt(800))
	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)

	stored, err := suite.factory.Create().LotRepository().Get(ctx, l.ID())
	suite.Require().NoError(err)
	suite.Equal(lot.Reserved, stored.Status())
	suite.True(stored.AvailableKg().IsZero())
	suite.Equal(copyA.Version()+1, stored.Version())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestLotRepository_SumListedKg() {
	ctx := context.Background()
	coop := kernel.NewUUID()
	a := suite.createLotFor(coop, "Maize", decimal.NewFromInt(300), true)
	b := suite.createLotFor(coop, "Maize", decimal.RequireFromString("150.5"), true)
	unverified := suite.createLotFor(coop, "Maize", decimal.NewFromInt(1000), false)
	otherCrop := suite.createLotFor(coop, "Beans", decimal.NewFromInt(1000), true)
	suite.commit(func(uow ports.UnitOfWork) error {
		return errors.Join(
			uow.LotRepository().Add(ctx, a),
			uow.LotRepository().Add(ctx, b),
			uow.LotRepository().Add(ctx, unverified),
			uow.LotRepository().Add(ctx, otherCrop),
		)
	})

	total, err := suite.factory.Create().LotRepository().SumListedKg(ctx, coop, "Maize")
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("450.5").Equal(total), "got %s", total)

	total, err = suite.factory.Create().LotRepository().SumListedKg(ctx, kernel.NewUUID(), "Maize")
	suite.Require().NoError(err)
	suite.True(total.IsZero())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestContractRepository_KeepsLotOrder() {
	ctx := context.Background()
	farmer := kernel.NewUUID()
	first, err := contract.NewContractLot(kernel.NewUUID(), farmer, decimal.NewFromInt(200), 0)
	suite.Require().NoError(err)
	second, err := contract.NewContractLot(kernel.NewUUID(), farmer, decimal.NewFromInt(300), 1)
	suite.Require().NoError(err)

	c, err := contract.NewContract(contract.Params{
		ID:            kernel.NewUUID(),
		OrderID:       kernel.NewUUID(),
		BuyerID:       kernel.NewUUID(),
		CooperativeID: kernel.NewUUID(),
		TrackingID:    contract.NewTrackingID(),
		AgreedPrice:   decimal.NewFromInt(110000),
		Lots:          []contract.ContractLot{first, second},
	}, time.Now())
	suite.Require().NoError(err)
	suite.commit(func(uow ports.UnitOfWork) error {
		return uow.ContractRepository().Add(ctx, c)
	})

	suite.Require().NoError(c.Activate())
	suite.commit(func(uow ports.UnitOfWork) error {
		return uow.ContractRepository().Update(ctx, c)
	})

	stored, err := suite.factory.Create().ContractRepository().GetByOrderID(ctx, c.OrderID())
	suite.Require().NoError(err)
	suite.Equal(c.ID(), stored.ID())
	suite.Equal(contract.Active, stored.Status())
	suite.Equal(c.TrackingID(), stored.TrackingID())
	suite.True(c.AgreedPrice().Equal(stored.AgreedPrice()))
	suite.Equal([]kernel.UUID{first.LotID(), second.LotID()}, stored.LotIDs())
	suite.True(decimal.NewFromInt(500).Equal(stored.TotalQuantityKg()))

	_, err = suite.factory.Create().ContractRepository().GetByOrderID(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRequestRepository_CommittedLoadAndJobs() {
	ctx := context.Background()
	carrier, err := transport.NewTransporter(kernel.NewUUID(), "Kivu Haulage", decimal.NewFromInt(5000), "RAB 123 A", "+250788000001")
	suite.Require().NoError(err)

	assigned := suite.createRequest(carrier.ID(), transport.Assigned, 300)
	inTransit := suite.createRequest(carrier.ID(), transport.InTransit, 200)
	delivered := suite.createRequest(carrier.ID(), transport.Delivered, 1000)
	other := suite.createRequest(kernel.NewUUID(), transport.Accepted, 700)
	suite.commit(func(uow ports.UnitOfWork) error {
		repo := uow.TransportRequestRepository()
		return errors.Join(
			uow.TransporterRepository().Add(ctx, carrier),
			repo.Add(ctx, assigned),
			repo.Add(ctx, inTransit),
			repo.Add(ctx, delivered),
			repo.Add(ctx, other),
		)
	})

	repo := suite.factory.Create().TransportRequestRepository()
	load, err := repo.CommittedLoadKg(ctx, carrier.ID())
	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(500).Equal(load), "got %s", load)

	jobs, err := repo.GetByTransporter(ctx, carrier.ID(), []transport.Status{transport.Assigned, transport.Delivered})
	suite.Require().NoError(err)
	suite.Require().Len(jobs, 2)
	suite.Equal(assigned.ID(), jobs[0].ID())
	suite.Equal(delivered.ID(), jobs[1].ID())

	active, err := suite.factory.Create().TransporterRepository().GetAllActive(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(active, 1)
	suite.Equal(carrier.ID(), active[0].ID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBookingRepository_GetDue() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	facility, err := storage.NewFacility(kernel.NewUUID(), "Musanze Warehouse", "Musanze", decimal.NewFromInt(10000))
	suite.Require().NoError(err)

	dueToStart := suite.createBooking(facility, now.Add(-time.Hour), now.Add(time.Hour), storage.Reserved)
	expired := suite.createBooking(facility, now.Add(-3*time.Hour), now.Add(-time.Hour), storage.Active)
	future := suite.createBooking(facility, now.Add(time.Hour), now.Add(3*time.Hour), storage.Reserved)
	suite.commit(func(uow ports.UnitOfWork) error {
		repo := uow.StorageBookingRepository()
		return errors.Join(
			uow.StorageFacilityRepository().Add(ctx, facility),
			repo.Add(ctx, dueToStart),
			repo.Add(ctx, expired),
			repo.Add(ctx, future),
		)
	})

	due, err := suite.factory.Create().StorageBookingRepository().GetDue(ctx, now, 10)
	suite.Require().NoError(err)
	suite.Require().Len(due, 2)
	suite.Equal(expired.ID(), due[0].ID(), "ordered by window end")
	suite.Equal(dueToStart.ID(), due[1].ID())

	stored, err := suite.factory.Create().StorageFacilityRepository().Get(ctx, facility.ID())
	suite.Require().NoError(err)
	suite.True(facility.AvailableKg().Equal(stored.AvailableKg()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestSettlement_SingleEscrowPerContract() {
	ctx := context.Background()
	contractID := kernel.NewUUID()
	escrow, err := settlement.NewLedgerEntry(kernel.NewUUID(), contractID, settlement.Escrow,
		decimal.NewFromInt(110000), "ESCROW-RASS-100001", time.Now())
	suite.Require().NoError(err)
	suite.commit(func(uow ports.UnitOfWork) error {
		return uow.LedgerRepository().Add(ctx, escrow)
	})

	duplicate, err := settlement.NewLedgerEntry(kernel.NewUUID(), contractID, settlement.Escrow,
		decimal.NewFromInt(110000), "ESCROW-RASS-100001", time.Now())
	suite.Require().NoError(err)
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().Error(uow.LedgerRepository().Add(ctx, duplicate))
	_ = uow.Rollback(ctx)

	stored, err := suite.factory.Create().LedgerRepository().GetEscrow(ctx, contractID)
	suite.Require().NoError(err)
	suite.Equal(escrow.ID(), stored.ID())
	suite.Equal(settlement.EntryPending, stored.Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestFarmerBalanceRepository_GetPending() {
	ctx := context.Background()
	contractID := kernel.NewUUID()
	now := time.Now()
	pending := suite.createBalance(contractID, 60000, now)
	paid := suite.createBalance(contractID, 40000, now)
	suite.Require().NoError(paid.MarkPaid("TX-1", now))
	suite.commit(func(uow ports.UnitOfWork) error {
		return errors.Join(
			uow.FarmerBalanceRepository().Add(ctx, pending),
			uow.FarmerBalanceRepository().Add(ctx, paid),
		)
	})

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()
	due, err := uow.FarmerBalanceRepository().GetPending(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(due, 1)
	suite.Equal(pending.ID(), due[0].ID())

	all, err := uow.FarmerBalanceRepository().GetByContractID(ctx, contractID)
	suite.Require().NoError(err)
	suite.Len(all, 2)
}

func (suite *UnitOfWorkIntegrationTestSuite) commit(fn func(uow ports.UnitOfWork) error) {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()
	suite.Require().NoError(fn(uow))
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) createOrder() *order.Order {
	window, err := kernel.NewTimeWindowFrom(time.Now().Add(48*time.Hour), 72*time.Hour)
	suite.Require().NoError(err)
	o, err := order.NewOrder(order.Params{
		ID:               kernel.NewUUID(),
		BuyerID:          kernel.NewUUID(),
		CooperativeID:    kernel.NewUUID(),
		Crop:             "Maize",
		QuantityKg:       decimal.NewFromInt(500),
		PriceOffer:       decimal.NewFromInt(110000),
		DeliveryLocation: "Kigali",
		DeliveryWindow:   window,
	}, time.Now())
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) createLot(quantityKg decimal.Decimal) *lot.Lot {
	return suite.createLotFor(kernel.NewUUID(), "Maize", quantityKg, true)
}

func (suite *UnitOfWorkIntegrationTestSuite) createLotFor(
	cooperativeID kernel.UUID,
	crop string,
	quantityKg decimal.Decimal,
	verified bool,
) *lot.Lot {
	l, err := lot.NewLot(kernel.NewUUID(), cooperativeID, kernel.NewUUID(), crop, quantityKg, "A",
		time.Now().Add(24*time.Hour), verified)
	suite.Require().NoError(err)
	return l
}

func (suite *UnitOfWorkIntegrationTestSuite) createRequest(transporterID kernel.UUID, status transport.Status, loadKg int64) *transport.Request {
	window, err := transport.DefaultPickupWindow(time.Now())
	suite.Require().NoError(err)
	contractID := kernel.NewUUID()
	r, err := transport.RestoreRequest(transport.Params{
		ID:           kernel.NewUUID(),
		ContractID:   &contractID,
		Origin:       "Musanze",
		Destination:  "Kigali",
		LoadKg:       decimal.NewFromInt(loadKg),
		PickupWindow: window,
		Price:        transport.DefaultPrice(decimal.NewFromInt(loadKg)),
	}, transport.Progress{
		Status:        status,
		TransporterID: &transporterID,
		CreatedAt:     time.Now().UTC(),
	})
	suite.Require().NoError(err)
	// created_at decides the order of GetByTransporter.
	time.Sleep(time.Millisecond)
	return r
}

func (suite *UnitOfWorkIntegrationTestSuite) createBooking(
	facility *storage.Facility,
	start, end time.Time,
	status storage.Status,
) *storage.Booking {
	window, err := kernel.NewTimeWindow(start, end)
	suite.Require().NoError(err)
	p := storage.Params{
		ID:         kernel.NewUUID(),
		FacilityID: facility.ID(),
		QuantityKg: decimal.NewFromInt(500),
		Window:     window,
	}
	b, err := storage.NewBooking(p, facility)
	suite.Require().NoError(err)
	if status == storage.Reserved {
		return b
	}
	restored, err := storage.RestoreBooking(p, status)
	suite.Require().NoError(err)
	return restored
}

func (suite *UnitOfWorkIntegrationTestSuite) createBalance(contractID kernel.UUID, amount int64, now time.Time) *settlement.FarmerBalance {
	b, err := settlement.NewFarmerBalance(settlement.BalanceParams{
		ID:         kernel.NewUUID(),
		FarmerID:   kernel.NewUUID(),
		ContractID: contractID,
		Amount:     decimal.NewFromInt(amount),
		Method:     settlement.MobileMoney,
	}, now)
	suite.Require().NoError(err)
	return b
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
