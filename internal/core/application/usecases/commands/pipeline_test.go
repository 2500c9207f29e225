package commands_test

import (
	"context"
	"testing"
	"time"

	"agritrade/internal/core/application/usecases/commands"
	"agritrade/internal/core/domain/model/contract"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/lot"
	"agritrade/internal/core/domain/model/order"
	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/core/domain/services"
	"agritrade/internal/core/ports"
	"agritrade/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type gatewayMock struct{ mock.Mock }

func (m *gatewayMock) Pay(ctx context.Context, instruction ports.PayoutInstruction) (string, error) {
	args := m.Called(ctx, instruction)
	return args.String(0), args.Error(1)
}

// PipelineSuite drives whole trades through the command handlers over an in-memory store.
type PipelineSuite struct {
	suite.Suite

	ctx    context.Context
	store  *memStore
	ledger services.InventoryLedger

	coopID, buyerID, farmerA, farmerB, truckerID kernel.UUID
	coop, buyer, trucker, admin                  kernel.Actor
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = newMemStore()
	s.ledger = services.NewInventoryLedger(services.DefaultReserveAttempts)

	s.coopID, s.buyerID = kernel.NewUUID(), kernel.NewUUID()
	s.farmerA, s.farmerB = kernel.NewUUID(), kernel.NewUUID()
	s.truckerID = kernel.NewUUID()

	s.coop = s.actor(kernel.CooperativeManager, &s.coopID)
	s.buyer = s.actor(kernel.Buyer, &s.buyerID)
	s.trucker = s.actor(kernel.Transporter, &s.truckerID)
	s.admin = s.actor(kernel.Admin, nil)
}

func (s *PipelineSuite) actor(role kernel.Role, party *kernel.UUID) kernel.Actor {
	a, err := kernel.NewActor(kernel.NewUUID(), role, party)
	s.Require().NoError(err)
	return a
}

func (s *PipelineSuite) registerLot(farmer kernel.UUID, kg int64) kernel.UUID {
	id := kernel.NewUUID()
	cmd, err := commands.NewRegisterLotCommand(s.coop, id, s.coopID, farmer, "Maize",
		decimal.NewFromInt(kg), "A", time.Now().AddDate(0, -1, 0))
	s.Require().NoError(err)
	s.Require().NoError(commands.NewRegisterLotCommandHandler(s.store, allowAll{}).Handle(s.ctx, cmd))
	return id
}

func (s *PipelineSuite) acceptedOrder(kg, price int64) kernel.UUID {
	window, err := kernel.NewTimeWindowFrom(time.Now().Add(24*time.Hour), 72*time.Hour)
	s.Require().NoError(err)
	id := kernel.NewUUID()
	coopID := s.coopID
	create, err := commands.NewCreateOrderCommand(s.buyer, commands.OrderRequest{
		OrderID:          id,
		BuyerID:          s.buyerID,
		CooperativeID:    &coopID,
		Crop:             "Maize",
		QuantityKg:       decimal.NewFromInt(kg),
		PriceOffer:       decimal.NewFromInt(price),
		DeliveryLocation: "Kigali",
		DeliveryWindow:   window,
	})
	s.Require().NoError(err)
	s.Require().NoError(commands.NewCreateOrderCommandHandler(s.store, allowAll{}).Handle(s.ctx, create))

	respond, err := commands.NewRespondToOrderCommand(s.coop, id, true)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewRespondToOrderCommandHandler(s.store, allowAll{}).Handle(s.ctx, respond))
	return id
}

func (s *PipelineSuite) formContract(orderID kernel.UUID, lotIDs ...kernel.UUID) (kernel.UUID, error) {
	id := kernel.NewUUID()
	cmd, err := commands.NewFormContractCommand(s.coop, id, orderID, lotIDs, decimal.Zero)
	s.Require().NoError(err)
	handler := commands.NewFormContractCommandHandler(s.store, allowAll{}, newMemLocker(), s.ledger, 0)
	return id, handler.Handle(s.ctx, cmd)
}

func (s *PipelineSuite) openTransport(contractID kernel.UUID, kg int64) (kernel.UUID, error) {
	id := kernel.NewUUID()
	cmd, err := commands.NewOpenTransportRequestCommand(s.coop, commands.TransportRequestDetails{
		RequestID:  id,
		ContractID: contractID,
		Origin:     "Musanze",
		LoadKg:     decimal.NewFromInt(kg),
	})
	s.Require().NoError(err)
	return id, commands.NewOpenTransportRequestCommandHandler(s.store, allowAll{}).Handle(s.ctx, cmd)
}

func (s *PipelineSuite) registerTransporter(capacity int64) {
	cmd, err := commands.NewRegisterTransporterCommand(s.admin, s.truckerID, "Nyabugogo Haulage",
		decimal.NewFromInt(capacity), "RAD 123 B", "+250788000000")
	s.Require().NoError(err)
	s.Require().NoError(commands.NewRegisterTransporterCommandHandler(s.store, allowAll{}).Handle(s.ctx, cmd))
}

func (s *PipelineSuite) assign(requestID kernel.UUID, transporterID *kernel.UUID) error {
	cmd, err := commands.NewAssignTransporterCommand(s.coop, requestID, transporterID)
	s.Require().NoError(err)
	handler := commands.NewAssignTransporterCommandHandler(s.store, allowAll{}, services.NewTransporterDispatcher())
	return handler.Handle(s.ctx, cmd)
}

func (s *PipelineSuite) accept(requestID kernel.UUID) error {
	cmd, err := commands.NewAcceptJobCommand(s.trucker, requestID, "RAD 123 B", "+250788000001")
	s.Require().NoError(err)
	handler := commands.NewAcceptJobCommandHandler(s.store, allowAll{}, services.NewTransporterDispatcher())
	return handler.Handle(s.ctx, cmd)
}

func (s *PipelineSuite) pickUp(requestID kernel.UUID) {
	cmd, err := commands.NewConfirmPickupCommand(s.trucker, requestID)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewConfirmPickupCommandHandler(s.store, allowAll{}).Handle(s.ctx, cmd))
}

func (s *PipelineSuite) initiateEscrow(contractID kernel.UUID) {
	cmd, err := commands.NewInitiateEscrowCommand(s.buyer, kernel.NewUUID(), contractID)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewInitiateEscrowCommandHandler(s.store, allowAll{}).Handle(s.ctx, cmd))
}

func (s *PipelineSuite) escrowStatus(contractID kernel.UUID) settlement.EntryStatus {
	e, err := memEntries{s.store}.GetEscrow(s.ctx, contractID)
	s.Require().NoError(err)
	return e.Status()
}

func (s *PipelineSuite) contract(id kernel.UUID) *contract.Contract {
	c, err := memContracts{s.store}.Get(s.ctx, id)
	s.Require().NoError(err)
	return c
}

func (s *PipelineSuite) TestMaizeScenario() {
	lot1 := s.registerLot(s.farmerA, 300)
	lot2 := s.registerLot(s.farmerB, 250)

	first := s.acceptedOrder(500, 210)
	contractID, err := s.formContract(first, lot1, lot2)
	s.Require().NoError(err)

	c := s.contract(contractID)
	s.Equal(contract.Draft, c.Status())
	s.True(c.TotalQuantityKg().GreaterThanOrEqual(decimal.NewFromInt(500)))
	s.True(c.AgreedPrice().Equal(decimal.NewFromInt(210)))
	s.Equal(lot.Sold, s.store.lot(lot1).status)
	s.Equal(lot.Sold, s.store.lot(lot2).status)

	second := s.acceptedOrder(200, 100)
	_, err = s.formContract(second, lot1)
	s.Require().ErrorIs(err, services.ErrLotUnavailable)

	o, err := memOrders{s.store}.Get(s.ctx, second)
	s.Require().NoError(err)
	s.Equal(order.Accepted, o.Status())
}

func (s *PipelineSuite) TestFormContract_RejectsShortLots() {
	lot1 := s.registerLot(s.farmerA, 300)
	orderID := s.acceptedOrder(500, 1000)

	_, err := s.formContract(orderID, lot1)

	s.Require().ErrorIs(err, commands.ErrQuantityMismatch)
	s.Equal(lot.Listed, s.store.lot(lot1).status)
}

func (s *PipelineSuite) TestFormContract_OrderTwice() {
	lot1 := s.registerLot(s.farmerA, 300)
	lot2 := s.registerLot(s.farmerA, 300)
	orderID := s.acceptedOrder(250, 1000)

	_, err := s.formContract(orderID, lot1)
	s.Require().NoError(err)
	_, err = s.formContract(orderID, lot2)

	s.Require().ErrorIs(err, commands.ErrContractExists)
	s.Equal(lot.Listed, s.store.lot(lot2).status)
}

func (s *PipelineSuite) TestDeliveredContractIsSettled() {
	lot1 := s.registerLot(s.farmerA, 300)
	lot2 := s.registerLot(s.farmerB, 200)
	contractID, err := s.formContract(s.acceptedOrder(500, 1000), lot1, lot2)
	s.Require().NoError(err)
	s.initiateEscrow(contractID)

	s.registerTransporter(1000)
	requestID, err := s.openTransport(contractID, 500)
	s.Require().NoError(err)
	s.Equal(contract.Active, s.contract(contractID).Status())

	s.Require().NoError(s.assign(requestID, nil))
	s.Require().NoError(s.accept(requestID))
	s.pickUp(requestID)

	transit, err := commands.NewMarkInTransitCommand(s.trucker, requestID)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewMarkInTransitCommandHandler(s.store, allowAll{}).Handle(s.ctx, transit))

	deliver, err := commands.NewConfirmTransportDeliveryCommand(s.trucker, requestID, "left at gate", "")
	s.Require().NoError(err)
	s.Require().NoError(commands.NewConfirmTransportDeliveryCommandHandler(s.store, allowAll{}).Handle(s.ctx, deliver))

	confirm, err := commands.NewConfirmDeliveryCommand(s.buyer, contractID)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewConfirmDeliveryCommandHandler(s.store, allowAll{}, s.ledger).Handle(s.ctx, confirm))

	s.Equal(contract.Fulfilled, s.contract(contractID).Status())
	s.Equal(lot.Consumed, s.store.lot(lot1).status)
	s.Equal(settlement.EntrySettled, s.escrowStatus(contractID))
	r, err := memRequests{s.store}.Get(s.ctx, requestID)
	s.Require().NoError(err)
	s.Equal(transport.Completed, r.Status())

	settle, err := commands.NewSettleFarmerPaymentsCommand(s.coop, contractID, settlement.MobileMoney)
	s.Require().NoError(err)
	settleHandler := commands.NewSettleFarmerPaymentsCommandHandler(s.store, allowAll{}, services.NewSettlementCalculator(0))
	ids, err := settleHandler.Handle(s.ctx, settle)
	s.Require().NoError(err)
	s.Require().Len(ids, 2)

	total := decimal.Zero
	byFarmer := map[kernel.UUID]decimal.Decimal{}
	for _, id := range ids {
		b, getErr := memBalances{s.store}.Get(s.ctx, id)
		s.Require().NoError(getErr)
		byFarmer[b.FarmerID()] = b.Amount()
		total = total.Add(b.Amount())
	}
	s.True(total.Equal(decimal.NewFromInt(1000)))
	s.True(byFarmer[s.farmerA].Equal(decimal.NewFromInt(600)))
	s.True(byFarmer[s.farmerB].Equal(decimal.NewFromInt(400)))

	_, err = settleHandler.Handle(s.ctx, settle)
	s.Require().ErrorIs(err, commands.ErrAlreadySettled)

	gateway := new(gatewayMock)
	gateway.On("Pay", mock.Anything, mock.MatchedBy(func(i ports.PayoutInstruction) bool {
		return i.FarmerID.IsEqual(s.farmerA)
	})).Return("TX-1", nil).Once()
	gateway.On("Pay", mock.Anything, mock.MatchedBy(func(i ports.PayoutInstruction) bool {
		return i.FarmerID.IsEqual(s.farmerB)
	})).Return("", errs.NewAdapterTimeoutError("payments", context.DeadlineExceeded)).Once()

	paid, failed, err := commands.NewDispatchPayoutsCommandHandler(s.store, gateway).
		Handle(s.ctx, commands.NewDispatchPayoutsCommand(time.Now(), 10))
	s.Require().NoError(err)
	s.Equal(1, paid)
	s.Equal(1, failed)
	gateway.AssertExpectations(s.T())

	balances, err := memBalances{s.store}.GetByContractID(s.ctx, contractID)
	s.Require().NoError(err)
	for _, b := range balances {
		if b.FarmerID().IsEqual(s.farmerB) {
			s.Equal(settlement.PayoutFailed, b.Status())
			retry, cmdErr := commands.NewRetryPayoutCommand(s.coop, b.ID())
			s.Require().NoError(cmdErr)
			s.Require().NoError(commands.NewRetryPayoutCommandHandler(s.store, allowAll{}).Handle(s.ctx, retry))
			s.Equal(settlement.PayoutPending, b.Status())
			s.Equal(2, b.Attempts())
			s.True(b.Amount().Equal(decimal.NewFromInt(400)))
			continue
		}
		s.Equal(settlement.PayoutPaid, b.Status())
		s.Equal("TX-1", b.TransactionReference())
	}
}

func (s *PipelineSuite) TestConfirmDelivery_WithoutTransport() {
	lot1 := s.registerLot(s.farmerA, 500)
	contractID, err := s.formContract(s.acceptedOrder(500, 1000), lot1)
	s.Require().NoError(err)

	confirm, err := commands.NewConfirmDeliveryCommand(s.buyer, contractID)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewConfirmDeliveryCommandHandler(s.store, allowAll{}, s.ledger).Handle(s.ctx, confirm))

	s.Equal(contract.Fulfilled, s.contract(contractID).Status())

	settle, err := commands.NewSettleFarmerPaymentsCommand(s.coop, contractID, settlement.BankTransfer)
	s.Require().NoError(err)
	_, err = commands.NewSettleFarmerPaymentsCommandHandler(s.store, allowAll{}, services.NewSettlementCalculator(0)).
		Handle(s.ctx, settle)
	s.Require().ErrorIs(err, commands.ErrEscrowNotSettled)
}

func (s *PipelineSuite) TestConfirmDelivery_OnlyBuyer() {
	lot1 := s.registerLot(s.farmerA, 500)
	contractID, err := s.formContract(s.acceptedOrder(500, 1000), lot1)
	s.Require().NoError(err)

	confirm, err := commands.NewConfirmDeliveryCommand(s.coop, contractID)
	s.Require().NoError(err)
	err = commands.NewConfirmDeliveryCommandHandler(s.store, allowAll{}, s.ledger).Handle(s.ctx, confirm)

	s.Require().ErrorIs(err, errs.ErrAccessDenied)
	s.Equal(contract.Draft, s.contract(contractID).Status())
}

func (s *PipelineSuite) TestCancelContract_RestoresLotsAndStorage() {
	lot1 := s.registerLot(s.farmerA, 300)
	lot2 := s.registerLot(s.farmerB, 200)
	contractID, err := s.formContract(s.acceptedOrder(500, 1000), lot1, lot2)
	s.Require().NoError(err)
	s.initiateEscrow(contractID)

	facilityID := kernel.NewUUID()
	register, err := commands.NewRegisterStorageFacilityCommand(s.admin, facilityID, "Musanze Silo", "Musanze",
		decimal.NewFromInt(1000))
	s.Require().NoError(err)
	s.Require().NoError(commands.NewRegisterStorageFacilityCommandHandler(s.store, allowAll{}).Handle(s.ctx, register))

	book, err := commands.NewCreateStorageBookingCommand(s.coop, commands.StorageBookingRequest{
		BookingID:  kernel.NewUUID(),
		FacilityID: facilityID,
		ContractID: &contractID,
		QuantityKg: decimal.NewFromInt(500),
	})
	s.Require().NoError(err)
	s.Require().NoError(commands.NewCreateStorageBookingCommandHandler(s.store, allowAll{}).Handle(s.ctx, book))
	s.Equal(contract.Active, s.contract(contractID).Status())

	requestID, err := s.openTransport(contractID, 500)
	s.Require().NoError(err)

	cancel, err := commands.NewCancelContractCommand(s.buyer, contractID)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewCancelContractCommandHandler(s.store, allowAll{}, s.ledger).Handle(s.ctx, cancel))

	s.Equal(contract.Cancelled, s.contract(contractID).Status())
	for id, kg := range map[kernel.UUID]int64{lot1: 300, lot2: 200} {
		row := s.store.lot(id)
		s.Equal(lot.Listed, row.status)
		s.True(row.available.Equal(decimal.NewFromInt(kg)))
	}
	f, err := memFacilities{s.store}.Get(s.ctx, facilityID)
	s.Require().NoError(err)
	s.True(f.AvailableKg().Equal(decimal.NewFromInt(1000)))
	r, err := memRequests{s.store}.Get(s.ctx, requestID)
	s.Require().NoError(err)
	s.Equal(transport.Cancelled, r.Status())
	s.Equal(settlement.EntryFailed, s.escrowStatus(contractID))
	s.Contains(s.store.auditActions(), "contract.cancel")
}

func (s *PipelineSuite) TestCancelContract_AfterPickup() {
	lot1 := s.registerLot(s.farmerA, 500)
	contractID, err := s.formContract(s.acceptedOrder(500, 1000), lot1)
	s.Require().NoError(err)
	s.registerTransporter(1000)
	requestID, err := s.openTransport(contractID, 500)
	s.Require().NoError(err)
	s.Require().NoError(s.assign(requestID, &s.truckerID))
	s.Require().NoError(s.accept(requestID))
	s.pickUp(requestID)

	cancel, err := commands.NewCancelContractCommand(s.coop, contractID)
	s.Require().NoError(err)
	err = commands.NewCancelContractCommandHandler(s.store, allowAll{}, s.ledger).Handle(s.ctx, cancel)

	s.Require().ErrorIs(err, commands.ErrGoodsAlreadyPickedUp)
	s.Equal(contract.Active, s.contract(contractID).Status())
	s.Equal(lot.Sold, s.store.lot(lot1).status)
}

func (s *PipelineSuite) TestTransport_CapacityAndScheduling() {
	lot1 := s.registerLot(s.farmerA, 500)
	contractID, err := s.formContract(s.acceptedOrder(500, 1000), lot1)
	s.Require().NoError(err)
	s.registerTransporter(400)

	first, err := s.openTransport(contractID, 250)
	s.Require().NoError(err)
	second, err := s.openTransport(contractID, 250)
	s.Require().NoError(err)
	_, err = s.openTransport(contractID, 1)
	s.Require().ErrorIs(err, commands.ErrLoadExceedsContract)

	s.Require().NoError(s.assign(first, &s.truckerID))
	s.Require().ErrorIs(s.assign(second, &s.truckerID), transport.ErrCapacityExceeded)
	s.Require().ErrorIs(s.assign(second, nil), services.ErrTransporterNotFound)

	// Reassigning the same request to the same truck does not count its load twice.
	s.Require().NoError(s.assign(first, &s.truckerID))
	s.Require().NoError(s.accept(first))
}

func (s *PipelineSuite) TestTransport_ScheduleConflict() {
	lot1 := s.registerLot(s.farmerA, 500)
	contractID, err := s.formContract(s.acceptedOrder(500, 1000), lot1)
	s.Require().NoError(err)
	s.registerTransporter(1000)

	first, err := s.openTransport(contractID, 250)
	s.Require().NoError(err)
	second, err := s.openTransport(contractID, 250)
	s.Require().NoError(err)
	s.Require().NoError(s.assign(first, &s.truckerID))
	s.Require().NoError(s.assign(second, &s.truckerID))

	s.Require().NoError(s.accept(first))
	s.Require().ErrorIs(s.accept(second), transport.ErrScheduleConflict)
}

func (s *PipelineSuite) TestTransport_OnlyAssigneeMovesIt() {
	lot1 := s.registerLot(s.farmerA, 500)
	contractID, err := s.formContract(s.acceptedOrder(500, 1000), lot1)
	s.Require().NoError(err)
	s.registerTransporter(1000)
	requestID, err := s.openTransport(contractID, 500)
	s.Require().NoError(err)
	s.Require().NoError(s.assign(requestID, &s.truckerID))

	otherID := kernel.NewUUID()
	cmd, err := commands.NewAcceptJobCommand(s.actor(kernel.Transporter, &otherID), requestID, "RAB 1", "+250")
	s.Require().NoError(err)
	err = commands.NewAcceptJobCommandHandler(s.store, allowAll{}, services.NewTransporterDispatcher()).Handle(s.ctx, cmd)
	s.Require().ErrorIs(err, transport.ErrNotAssignee)

	pickup, err := commands.NewConfirmPickupCommand(s.trucker, requestID)
	s.Require().NoError(err)
	err = commands.NewConfirmPickupCommandHandler(s.store, allowAll{}).Handle(s.ctx, pickup)
	s.Require().ErrorIs(err, errs.ErrInvalidTransition)
}

func (s *PipelineSuite) TestTransport_UnassignedRequestCannotMove() {
	lot1 := s.registerLot(s.farmerA, 500)
	contractID, err := s.formContract(s.acceptedOrder(500, 1000), lot1)
	s.Require().NoError(err)
	requestID, err := s.openTransport(contractID, 500)
	s.Require().NoError(err)

	s.Require().ErrorIs(s.accept(requestID), errs.ErrInvalidTransition)

	for _, actor := range []kernel.Actor{s.trucker, s.admin} {
		accept, cmdErr := commands.NewAcceptJobCommand(actor, requestID, "RAB 1", "+250788000002")
		s.Require().NoError(cmdErr)
		err = commands.NewAcceptJobCommandHandler(s.store, allowAll{}, services.NewTransporterDispatcher()).Handle(s.ctx, accept)
		s.Require().ErrorIs(err, errs.ErrInvalidTransition)
		s.Require().NotErrorIs(err, errs.ErrAccessDenied)

		pickup, cmdErr := commands.NewConfirmPickupCommand(actor, requestID)
		s.Require().NoError(cmdErr)
		err = commands.NewConfirmPickupCommandHandler(s.store, allowAll{}).Handle(s.ctx, pickup)
		s.Require().ErrorIs(err, errs.ErrInvalidTransition)

		deliver, cmdErr := commands.NewConfirmTransportDeliveryCommand(actor, requestID, "", "")
		s.Require().NoError(cmdErr)
		err = commands.NewConfirmTransportDeliveryCommandHandler(s.store, allowAll{}).Handle(s.ctx, deliver)
		s.Require().ErrorIs(err, errs.ErrInvalidTransition)
	}

	r, err := memRequests{s.store}.Get(s.ctx, requestID)
	s.Require().NoError(err)
	s.Equal(transport.Pending, r.Status())
}

func (s *PipelineSuite) TestDisputeAndResolve() {
	lot1 := s.registerLot(s.farmerA, 500)
	contractID, err := s.formContract(s.acceptedOrder(500, 1000), lot1)
	s.Require().NoError(err)

	dispute, err := commands.NewDisputeContractCommand(s.buyer, contractID)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewDisputeContractCommandHandler(s.store, allowAll{}).Handle(s.ctx, dispute))
	s.Equal(contract.Disputed, s.contract(contractID).Status())

	_, err = s.openTransport(contractID, 500)
	s.Require().ErrorIs(err, errs.ErrInvalidTransition)

	resolve, err := commands.NewResolveDisputeCommand(s.admin, contractID)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewResolveDisputeCommandHandler(s.store, allowAll{}).Handle(s.ctx, resolve))
	s.Equal(contract.Active, s.contract(contractID).Status())
}

func (s *PipelineSuite) TestStorageSweep() {
	facilityID := kernel.NewUUID()
	register, err := commands.NewRegisterStorageFacilityCommand(s.admin, facilityID, "Huye Store", "Huye",
		decimal.NewFromInt(1000))
	s.Require().NoError(err)
	s.Require().NoError(commands.NewRegisterStorageFacilityCommandHandler(s.store, allowAll{}).Handle(s.ctx, register))

	now := time.Now()
	window, err := kernel.NewTimeWindowFrom(now.Add(time.Hour), 24*time.Hour)
	s.Require().NoError(err)
	bookingID := kernel.NewUUID()
	book, err := commands.NewCreateStorageBookingCommand(s.coop, commands.StorageBookingRequest{
		BookingID:  bookingID,
		FacilityID: facilityID,
		QuantityKg: decimal.NewFromInt(400),
		Window:     &window,
	})
	s.Require().NoError(err)
	s.Require().NoError(commands.NewCreateStorageBookingCommandHandler(s.store, allowAll{}).Handle(s.ctx, book))

	sweep := commands.NewAdvanceStorageBookingsCommandHandler(s.store)
	changed, err := sweep.Handle(s.ctx, commands.NewAdvanceStorageBookingsCommand(now, 10))
	s.Require().NoError(err)
	s.Zero(changed)

	changed, err = sweep.Handle(s.ctx, commands.NewAdvanceStorageBookingsCommand(now.Add(2*time.Hour), 10))
	s.Require().NoError(err)
	s.Equal(1, changed)

	changed, err = sweep.Handle(s.ctx, commands.NewAdvanceStorageBookingsCommand(now.Add(48*time.Hour), 10))
	s.Require().NoError(err)
	s.Equal(1, changed)

	f, err := memFacilities{s.store}.Get(s.ctx, facilityID)
	s.Require().NoError(err)
	s.True(f.AvailableKg().Equal(decimal.NewFromInt(1000)))
}

func (s *PipelineSuite) TestFormContract_LockHeld() {
	lot1 := s.registerLot(s.farmerA, 500)
	orderID := s.acceptedOrder(500, 1000)

	locker := newMemLocker()
	_, err := locker.Obtain(s.ctx, "contract-formation:"+orderID.String(), time.Minute)
	s.Require().NoError(err)

	cmd, err := commands.NewFormContractCommand(s.coop, kernel.NewUUID(), orderID, []kernel.UUID{lot1}, decimal.Zero)
	s.Require().NoError(err)
	err = commands.NewFormContractCommandHandler(s.store, allowAll{}, locker, s.ledger, 0).Handle(s.ctx, cmd)

	s.Require().ErrorIs(err, commands.ErrFormationInProgress)
	s.Equal(lot.Listed, s.store.lot(lot1).status)
}
