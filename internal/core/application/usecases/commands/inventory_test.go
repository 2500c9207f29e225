package commands_test

import (
	"time"

	"agritrade/internal/core/application/usecases/commands"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/listing"
	"agritrade/internal/core/domain/model/lot"
	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/core/domain/model/storage"
	"agritrade/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

func (s *PipelineSuite) declareHarvest(kg int64) kernel.UUID {
	farmer := s.actor(kernel.Farmer, &s.farmerA)
	id := kernel.NewUUID()
	cmd, err := commands.NewDeclareHarvestCommand(farmer, id, s.coopID, "Maize",
		decimal.NewFromInt(kg), time.Now().AddDate(0, 1, 0), "B")
	s.Require().NoError(err)
	s.Require().NoError(commands.NewDeclareHarvestCommandHandler(s.store, allowAll{}).Handle(s.ctx, cmd))
	return id
}

func (s *PipelineSuite) review(actor kernel.Actor, id kernel.UUID, approved bool, measured int64) (*kernel.UUID, error) {
	cmd, err := commands.NewReviewHarvestDeclarationCommand(actor, id, approved, decimal.NewFromInt(measured), "checked")
	s.Require().NoError(err)
	return commands.NewReviewHarvestDeclarationCommandHandler(s.store, allowAll{}).Handle(s.ctx, cmd)
}

func (s *PipelineSuite) TestHarvestDeclaration_ApprovalCreatesVerifiedLot() {
	declarationID := s.declareHarvest(400)

	lotID, err := s.review(s.coop, declarationID, true, 380)

	s.Require().NoError(err)
	s.Require().NotNil(lotID)
	row := s.store.lot(*lotID)
	s.Equal(lot.Listed, row.status)
	s.True(row.available.Equal(decimal.NewFromInt(380)))
	s.True(row.l.Verified())
	s.True(row.l.FarmerID().IsEqual(s.farmerA))

	d, err := memDeclarations{s.store}.Get(s.ctx, declarationID)
	s.Require().NoError(err)
	s.Equal(lot.DeclarationApproved, d.Status())
	s.Require().NotNil(d.LotID())
	s.True(d.LotID().IsEqual(*lotID))
	s.Subset(s.store.auditActions(), []string{"harvest.declare", "harvest.review"})
}

func (s *PipelineSuite) TestHarvestDeclaration_RejectedOnce() {
	declarationID := s.declareHarvest(400)

	lotID, err := s.review(s.coop, declarationID, false, 0)
	s.Require().NoError(err)
	s.Nil(lotID)

	_, err = s.review(s.coop, declarationID, true, 0)
	s.Require().ErrorIs(err, errs.ErrInvalidTransition)
}

func (s *PipelineSuite) TestHarvestDeclaration_OtherCooperativeDenied() {
	declarationID := s.declareHarvest(400)
	otherCoop := kernel.NewUUID()

	_, err := s.review(s.actor(kernel.CooperativeManager, &otherCoop), declarationID, true, 0)

	s.Require().ErrorIs(err, errs.ErrAccessDenied)
	d, getErr := memDeclarations{s.store}.Get(s.ctx, declarationID)
	s.Require().NoError(getErr)
	s.Equal(lot.DeclarationPending, d.Status())
}

func (s *PipelineSuite) createListing(kg int64, window kernel.TimeWindow) (kernel.UUID, error) {
	id := kernel.NewUUID()
	cmd, err := commands.NewCreateListingCommand(s.coop, id, s.coopID, "Maize",
		decimal.NewFromInt(kg), decimal.NewFromInt(200), window)
	s.Require().NoError(err)
	return id, commands.NewCreateListingCommandHandler(s.store, allowAll{}).Handle(s.ctx, cmd)
}

func (s *PipelineSuite) TestCreateListing_NeedsListedStock() {
	s.registerLot(s.farmerA, 300)
	window, err := kernel.NewTimeWindowFrom(time.Now(), 24*time.Hour)
	s.Require().NoError(err)

	_, err = s.createListing(500, window)
	s.Require().ErrorIs(err, commands.ErrInsufficientListing)

	listingID, err := s.createListing(300, window)
	s.Require().NoError(err)

	cancel, err := commands.NewCancelListingCommand(s.coop, listingID)
	s.Require().NoError(err)
	handler := commands.NewCancelListingCommandHandler(s.store, allowAll{})
	s.Require().NoError(handler.Handle(s.ctx, cancel))

	l, err := memListings{s.store}.Get(s.ctx, listingID)
	s.Require().NoError(err)
	s.Equal(listing.Cancelled, l.Status())
	s.Require().ErrorIs(handler.Handle(s.ctx, cancel), errs.ErrInvalidTransition)
}

func (s *PipelineSuite) TestExpireListings() {
	s.registerLot(s.farmerA, 300)
	now := time.Now()
	window, err := kernel.NewTimeWindowFrom(now, 24*time.Hour)
	s.Require().NoError(err)
	listingID, err := s.createListing(300, window)
	s.Require().NoError(err)

	sweep := commands.NewExpireListingsCommandHandler(s.store)
	expired, err := sweep.Handle(s.ctx, commands.NewExpireListingsCommand(now.Add(time.Hour), 10))
	s.Require().NoError(err)
	s.Zero(expired)

	expired, err = sweep.Handle(s.ctx, commands.NewExpireListingsCommand(now.Add(48*time.Hour), 10))
	s.Require().NoError(err)
	s.Equal(1, expired)

	l, err := memListings{s.store}.Get(s.ctx, listingID)
	s.Require().NoError(err)
	s.Equal(listing.Expired, l.Status())
}

func (s *PipelineSuite) TestConfirmPayout_WritesPayoutEntry() {
	contractID, err := s.formContract(s.acceptedOrder(500, 1000), s.registerLot(s.farmerA, 500))
	s.Require().NoError(err)
	balance, err := settlement.NewFarmerBalance(settlement.BalanceParams{
		ID:         kernel.NewUUID(),
		FarmerID:   s.farmerA,
		ContractID: contractID,
		Amount:     decimal.NewFromInt(1000),
		Method:     settlement.MobileMoney,
	}, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(memBalances{s.store}.Add(s.ctx, balance))

	confirm, err := commands.NewConfirmPayoutCommand(s.coop, balance.ID(), "MM-778812")
	s.Require().NoError(err)
	handler := commands.NewConfirmPayoutCommandHandler(s.store, allowAll{})
	s.Require().NoError(handler.Handle(s.ctx, confirm))

	b, err := memBalances{s.store}.Get(s.ctx, balance.ID())
	s.Require().NoError(err)
	s.Equal(settlement.PayoutPaid, b.Status())
	s.Equal("MM-778812", b.TransactionReference())
	s.NotNil(b.PaidAt())

	payouts := 0
	for _, e := range s.store.entries {
		if e.Type() == settlement.Payout {
			payouts++
			s.Equal(settlement.EntrySettled, e.Status())
			s.True(e.Amount().Equal(decimal.NewFromInt(1000)))
		}
	}
	s.Equal(1, payouts)
	s.Contains(s.store.auditActions(), "payout.confirm")

	s.Require().ErrorIs(handler.Handle(s.ctx, confirm), errs.ErrInvalidTransition)
}

func (s *PipelineSuite) TestReleaseStorageBooking_RestoresCapacity() {
	facilityID := kernel.NewUUID()
	register, err := commands.NewRegisterStorageFacilityCommand(s.admin, facilityID, "Rubavu Silo", "Rubavu",
		decimal.NewFromInt(1000))
	s.Require().NoError(err)
	s.Require().NoError(commands.NewRegisterStorageFacilityCommandHandler(s.store, allowAll{}).Handle(s.ctx, register))

	bookingID := kernel.NewUUID()
	book, err := commands.NewCreateStorageBookingCommand(s.coop, commands.StorageBookingRequest{
		BookingID:  bookingID,
		FacilityID: facilityID,
		QuantityKg: decimal.NewFromInt(400),
	})
	s.Require().NoError(err)
	s.Require().NoError(commands.NewCreateStorageBookingCommandHandler(s.store, allowAll{}).Handle(s.ctx, book))
	s.True(s.facility(facilityID).AvailableKg().Equal(decimal.NewFromInt(600)))

	release, err := commands.NewReleaseStorageBookingCommand(s.coop, bookingID)
	s.Require().NoError(err)
	handler := commands.NewReleaseStorageBookingCommandHandler(s.store, allowAll{})
	s.Require().NoError(handler.Handle(s.ctx, release))

	s.True(s.facility(facilityID).AvailableKg().Equal(decimal.NewFromInt(1000)))
	b, err := memBookings{s.store}.Get(s.ctx, bookingID)
	s.Require().NoError(err)
	s.Equal(storage.Released, b.Status())
	s.Require().ErrorIs(handler.Handle(s.ctx, release), errs.ErrInvalidTransition)
}

func (s *PipelineSuite) facility(id kernel.UUID) *storage.Facility {
	f, err := memFacilities{s.store}.Get(s.ctx, id)
	s.Require().NoError(err)
	return f
}
