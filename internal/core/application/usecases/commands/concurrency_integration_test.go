package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	postgres_adapter "agritrade/internal/adapters/out/postgres"
	"agritrade/internal/core/application/usecases/commands"
	"agritrade/internal/core/domain/model/contract"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/lot"
	"agritrade/internal/core/domain/model/order"
	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/core/domain/services"
	"agritrade/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type gormUoWFactory struct {
	factory *postgres_adapter.GormUnitOfWorkFactory
}

func (f gormUoWFactory) Create() commands.UoW { return f.factory.Create() }

// ConcurrencyIntegrationTestSuite races command handlers against each other on a real PostgreSQL.
type ConcurrencyIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	uows      gormUoWFactory

	ctx    context.Context
	coopID kernel.UUID
	coop   kernel.Actor
}

func (suite *ConcurrencyIntegrationTestSuite) SetupSuite() {
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
	suite.uows = gormUoWFactory{factory: postgres_adapter.NewGormUnitOfWorkFactory(db)}
}

func (suite *ConcurrencyIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(`TRUNCATE TABLE lots, harvest_declarations, listings, orders, contracts,
		contract_lots, transporters, transport_requests, storage_facilities, storage_bookings,
		ledger_entries, farmer_balances, audit_records, outbox_events`).Error
	suite.Require().NoError(err)

	suite.ctx = context.Background()
	suite.coopID = kernel.NewUUID()
	coop, err := kernel.NewActor(kernel.NewUUID(), kernel.CooperativeManager, &suite.coopID)
	suite.Require().NoError(err)
	suite.coop = coop
}

func (suite *ConcurrencyIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ConcurrencyIntegrationTestSuite) TestFormContract_OverlappingLotsOneWinner() {
	shared := suite.saveLot(500)
	first, second := suite.saveAcceptedOrder(500), suite.saveAcceptedOrder(500)
	handler := commands.NewFormContractCommandHandler(suite.uows, allowAll{}, newMemLocker(),
		services.NewInventoryLedger(services.DefaultReserveAttempts), 0)

	results := suite.race(
		func() error { return suite.form(handler, first, shared) },
		func() error { return suite.form(handler, second, shared) },
	)

	succeeded, unavailable := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, services.ErrLotUnavailable):
			unavailable++
		default:
			suite.Failf("unexpected error", "%v", err)
		}
	}
	suite.Equal(1, succeeded)
	suite.Equal(1, unavailable)

	stored, err := suite.uows.Create().LotRepository().Get(suite.ctx, shared)
	suite.Require().NoError(err)
	suite.Equal(lot.Sold, stored.Status())
	suite.True(stored.AvailableKg().IsZero())

	var contracts int64
	suite.Require().NoError(suite.db.Table("contracts").Count(&contracts).Error)
	suite.EqualValues(1, contracts)
}

func (suite *ConcurrencyIntegrationTestSuite) TestCancelOrder_RacingFormationKeepsOrderConsistent() {
	lotID := suite.saveLot(500)
	orderID := suite.saveAcceptedOrder(500)
	form := commands.NewFormContractCommandHandler(suite.uows, allowAll{}, newMemLocker(),
		services.NewInventoryLedger(services.DefaultReserveAttempts), 0)
	cancel := commands.NewCancelOrderCommandHandler(suite.uows, allowAll{})
	buyer := suite.buyerOf(orderID)

	results := suite.race(
		func() error { return suite.form(form, orderID, lotID) },
		func() error {
			cmd, err := commands.NewCancelOrderCommand(buyer, orderID)
			if err != nil {
				return err
			}
			return cancel.Handle(suite.ctx, cmd)
		},
	)

	o, err := suite.uows.Create().OrderRepository().Get(suite.ctx, orderID)
	suite.Require().NoError(err)
	_, contractErr := suite.uows.Create().ContractRepository().GetByOrderID(suite.ctx, orderID)

	if results[0] == nil {
		suite.Require().ErrorIs(results[1], commands.ErrContractExists)
		suite.Equal(order.Accepted, o.Status())
		suite.NoError(contractErr)
		return
	}
	suite.Require().ErrorIs(results[0], commands.ErrOrderNotAccepted)
	suite.Require().NoError(results[1])
	suite.Equal(order.Cancelled, o.Status())
	suite.ErrorIs(contractErr, errs.ErrObjectNotFound)
}

func (suite *ConcurrencyIntegrationTestSuite) TestSettleFarmerPayments_ConcurrentCallsSettleOnce() {
	contractID := suite.saveFulfilledContract()
	handler := commands.NewSettleFarmerPaymentsCommandHandler(suite.uows, allowAll{}, services.NewSettlementCalculator(0))
	settle := func() error {
		cmd, err := commands.NewSettleFarmerPaymentsCommand(suite.coop, contractID, settlement.MobileMoney)
		if err != nil {
			return err
		}
		_, err = handler.Handle(suite.ctx, cmd)
		return err
	}

	results := suite.race(settle, settle)

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		suite.Require().ErrorIs(err, commands.ErrAlreadySettled)
	}
	suite.Equal(1, succeeded)

	balances, err := suite.uows.Create().FarmerBalanceRepository().GetByContractID(suite.ctx, contractID)
	suite.Require().NoError(err)
	suite.Require().Len(balances, 2)
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Amount())
	}
	suite.True(decimal.NewFromInt(1000).Equal(total), "got %s", total)
}

// race starts every fn at the same moment and returns their errors in argument order.
func (suite *ConcurrencyIntegrationTestSuite) race(fns ...func() error) []error {
	results := make([]error, len(fns))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, fn := range fns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = fn()
		}()
	}
	close(start)
	wg.Wait()
	return results
}

func (suite *ConcurrencyIntegrationTestSuite) form(handler commands.FormContractCommandHandler, orderID, lotID kernel.UUID) error {
	cmd, err := commands.NewFormContractCommand(suite.coop, kernel.NewUUID(), orderID, []kernel.UUID{lotID}, decimal.Zero)
	if err != nil {
		return err
	}
	return handler.Handle(suite.ctx, cmd)
}

func (suite *ConcurrencyIntegrationTestSuite) saveLot(kg int64) kernel.UUID {
	l, err := lot.NewLot(kernel.NewUUID(), suite.coopID, kernel.NewUUID(), "Maize", decimal.NewFromInt(kg), "A",
		time.Now().Add(-24*time.Hour), true)
	suite.Require().NoError(err)
	suite.commit(func(uow commands.UoW) error {
		return uow.LotRepository().Add(suite.ctx, l)
	})
	return l.ID()
}

func (suite *ConcurrencyIntegrationTestSuite) saveAcceptedOrder(kg int64) kernel.UUID {
	window, err := kernel.NewTimeWindowFrom(time.Now().Add(48*time.Hour), 72*time.Hour)
	suite.Require().NoError(err)
	o, err := order.NewOrder(order.Params{
		ID:               kernel.NewUUID(),
		BuyerID:          kernel.NewUUID(),
		CooperativeID:    suite.coopID,
		Crop:             "Maize",
		QuantityKg:       decimal.NewFromInt(kg),
		PriceOffer:       decimal.NewFromInt(200),
		DeliveryLocation: "Kigali",
		DeliveryWindow:   window,
	}, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(o.Respond(true))
	suite.commit(func(uow commands.UoW) error {
		return uow.OrderRepository().Add(suite.ctx, o)
	})
	return o.ID()
}

func (suite *ConcurrencyIntegrationTestSuite) buyerOf(orderID kernel.UUID) kernel.Actor {
	o, err := suite.uows.Create().OrderRepository().Get(suite.ctx, orderID)
	suite.Require().NoError(err)
	buyerID := o.BuyerID()
	buyer, err := kernel.NewActor(kernel.NewUUID(), kernel.Buyer, &buyerID)
	suite.Require().NoError(err)
	return buyer
}

func (suite *ConcurrencyIntegrationTestSuite) saveFulfilledContract() kernel.UUID {
	first, err := contract.NewContractLot(kernel.NewUUID(), kernel.NewUUID(), decimal.NewFromInt(300), 0)
	suite.Require().NoError(err)
	second, err := contract.NewContractLot(kernel.NewUUID(), kernel.NewUUID(), decimal.NewFromInt(200), 1)
	suite.Require().NoError(err)

	c, err := contract.NewContract(contract.Params{
		ID:            kernel.NewUUID(),
		OrderID:       kernel.NewUUID(),
		BuyerID:       kernel.NewUUID(),
		CooperativeID: suite.coopID,
		TrackingID:    contract.NewTrackingID(),
		AgreedPrice:   decimal.NewFromInt(1000),
		Lots:          []contract.ContractLot{first, second},
	}, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(c.Activate())
	suite.Require().NoError(c.Fulfill())

	escrow, err := settlement.NewLedgerEntry(kernel.NewUUID(), c.ID(), settlement.Escrow,
		c.AgreedPrice(), "ESCROW-"+c.TrackingID(), time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(escrow.Settle())

	suite.commit(func(uow commands.UoW) error {
		if err := uow.ContractRepository().Add(suite.ctx, c); err != nil {
			return err
		}
		return uow.LedgerRepository().Add(suite.ctx, escrow)
	})
	return c.ID()
}

func (suite *ConcurrencyIntegrationTestSuite) commit(fn func(uow commands.UoW) error) {
	uow := suite.uows.Create()
	suite.Require().NoError(uow.Begin(suite.ctx))
	defer func() { _ = uow.Rollback(suite.ctx) }()
	suite.Require().NoError(fn(uow))
	suite.Require().NoError(uow.Commit(suite.ctx))
}

func TestConcurrencyIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ConcurrencyIntegrationTestSuite))
}
