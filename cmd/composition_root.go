package cmd

import (
	"log/slog"
	"net/http"

	httpin "agritrade/internal/adapters/in/http"
	"agritrade/internal/adapters/out/authz"
	"agritrade/internal/adapters/out/payment"
	"agritrade/internal/adapters/out/postgres"
	"agritrade/internal/adapters/out/redislock"
	"agritrade/internal/core/application/usecases/commands"
	"agritrade/internal/core/application/usecases/queries"
	"agritrade/internal/core/domain/services"
	"agritrade/internal/core/ports"
	"agritrade/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	authorizer ports.Authorizer
	locker     ports.Locker
	gateway    ports.PaymentGateway
	publisher  ports.EventPublisher
	ledger     services.InventoryLedger
	calculator services.SettlementCalculator
	dispatcher services.TransporterDispatcher
	logger     *slog.Logger
}

// NewCompositionRoot wires the use cases over the given infrastructure. publisher is
// where the outbox relay delivers committed events.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	rdb redis.UniversalClient,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) (CompositionRoot, error) {
	authorizer, err := authz.NewCasbinAuthorizer(authz.DefaultPolicy)
	if err != nil {
		return CompositionRoot{}, err
	}
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		authorizer: authorizer,
		locker:     redislock.NewRedisLocker(rdb),
		gateway: payment.NewHTTPGateway(payment.Config{
			BaseURL:     cfg.PaymentBaseURL,
			APIKey:      cfg.PaymentAPIKey,
			Timeout:     cfg.PaymentTimeout,
			MaxAttempts: cfg.PaymentMaxAttempts,
		}, &http.Client{}),
		publisher:  publisher,
		ledger:     services.NewInventoryLedger(cfg.ReserveAttempts),
		calculator: services.NewSettlementCalculator(cfg.CurrencyScale),
		dispatcher: services.NewTransporterDispatcher(),
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) outboxUoW() commands.OutboxUoWFactory {
	return FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateRespondToOrderCommandHandler() commands.RespondToOrderCommandHandler {
	return commands.NewRespondToOrderCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateFormContractCommandHandler() commands.FormContractCommandHandler {
	return commands.NewFormContractCommandHandler(c.uow(), c.authorizer, c.locker, c.ledger, c.cfg.FormationLockTTL)
}

func (c *CompositionRoot) CreateCancelContractCommandHandler() commands.CancelContractCommandHandler {
	return commands.NewCancelContractCommandHandler(c.uow(), c.authorizer, c.ledger)
}

func (c *CompositionRoot) CreateDisputeContractCommandHandler() commands.DisputeContractCommandHandler {
	return commands.NewDisputeContractCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateResolveDisputeCommandHandler() commands.ResolveDisputeCommandHandler {
	return commands.NewResolveDisputeCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.uow(), c.authorizer, c.ledger)
}

func (c *CompositionRoot) CreateOpenTransportRequestCommandHandler() commands.OpenTransportRequestCommandHandler {
	return commands.NewOpenTransportRequestCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateAssignTransporterCommandHandler() commands.AssignTransporterCommandHandler {
	return commands.NewAssignTransporterCommandHandler(c.uow(), c.authorizer, c.dispatcher)
}

func (c *CompositionRoot) CreateAcceptJobCommandHandler() commands.AcceptJobCommandHandler {
	return commands.NewAcceptJobCommandHandler(c.uow(), c.authorizer, c.dispatcher)
}

func (c *CompositionRoot) CreateConfirmPickupCommandHandler() commands.ConfirmPickupCommandHandler {
	return commands.NewConfirmPickupCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateMarkInTransitCommandHandler() commands.MarkInTransitCommandHandler {
	return commands.NewMarkInTransitCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateConfirmTransportDeliveryCommandHandler() commands.ConfirmTransportDeliveryCommandHandler {
	return commands.NewConfirmTransportDeliveryCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateCancelTransportCommandHandler() commands.CancelTransportCommandHandler {
	return commands.NewCancelTransportCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateRegisterTransporterCommandHandler() commands.RegisterTransporterCommandHandler {
	return commands.NewRegisterTransporterCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateRegisterStorageFacilityCommandHandler() commands.RegisterStorageFacilityCommandHandler {
	return commands.NewRegisterStorageFacilityCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateCreateStorageBookingCommandHandler() commands.CreateStorageBookingCommandHandler {
	return commands.NewCreateStorageBookingCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateReleaseStorageBookingCommandHandler() commands.ReleaseStorageBookingCommandHandler {
	return commands.NewReleaseStorageBookingCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateInitiateEscrowCommandHandler() commands.InitiateEscrowCommandHandler {
	return commands.NewInitiateEscrowCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateSettleFarmerPaymentsCommandHandler() commands.SettleFarmerPaymentsCommandHandler {
	return commands.NewSettleFarmerPaymentsCommandHandler(c.uow(), c.authorizer, c.calculator)
}

func (c *CompositionRoot) CreateConfirmPayoutCommandHandler() commands.ConfirmPayoutCommandHandler {
	return commands.NewConfirmPayoutCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateFailPayoutCommandHandler() commands.FailPayoutCommandHandler {
	return commands.NewFailPayoutCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateRetryPayoutCommandHandler() commands.RetryPayoutCommandHandler {
	return commands.NewRetryPayoutCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateRegisterLotCommandHandler() commands.RegisterLotCommandHandler {
	return commands.NewRegisterLotCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateDeclareHarvestCommandHandler() commands.DeclareHarvestCommandHandler {
	return commands.NewDeclareHarvestCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateReviewHarvestDeclarationCommandHandler() commands.ReviewHarvestDeclarationCommandHandler {
	return commands.NewReviewHarvestDeclarationCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateCreateListingCommandHandler() commands.CreateListingCommandHandler {
	return commands.NewCreateListingCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateCancelListingCommandHandler() commands.CancelListingCommandHandler {
	return commands.NewCancelListingCommandHandler(c.uow(), c.authorizer)
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() commands.RelayOutboxCommandHandler {
	return commands.NewRelayOutboxCommandHandler(c.outboxUoW(), c.publisher)
}

func (c *CompositionRoot) CreateAdvanceStorageBookingsCommandHandler() commands.AdvanceStorageBookingsCommandHandler {
	return commands.NewAdvanceStorageBookingsCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateExpireListingsCommandHandler() commands.ExpireListingsCommandHandler {
	return commands.NewExpireListingsCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateDispatchPayoutsCommandHandler() commands.DispatchPayoutsCommandHandler {
	return commands.NewDispatchPayoutsCommandHandler(c.uow(), c.gateway)
}

func (c *CompositionRoot) CreateGetContractQueryHandler() queries.GetContractQueryHandler {
	return queries.NewGetContractQueryHandler(c.gormDB, c.authorizer)
}

func (c *CompositionRoot) CreateSuggestLotsQueryHandler() queries.SuggestLotsQueryHandler {
	return queries.NewSuggestLotsQueryHandler(c.gormDB, c.authorizer)
}

func (c *CompositionRoot) CreateGetTransporterJobsQueryHandler() queries.GetTransporterJobsQueryHandler {
	return queries.NewGetTransporterJobsQueryHandler(c.gormDB, c.authorizer)
}

func (c *CompositionRoot) CreateGetFarmerBalancesQueryHandler() queries.GetFarmerBalancesQueryHandler {
	return queries.NewGetFarmerBalancesQueryHandler(c.gormDB, c.authorizer)
}

// CreateHTTPHandlers collects every use case the HTTP adapter exposes.
func (c *CompositionRoot) CreateHTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		CreateOrder:    c.CreateCreateOrderCommandHandler(),
		RespondToOrder: c.CreateRespondToOrderCommandHandler(),
		CancelOrder:    c.CreateCancelOrderCommandHandler(),

		FormContract:    c.CreateFormContractCommandHandler(),
		CancelContract:  c.CreateCancelContractCommandHandler(),
		DisputeContract: c.CreateDisputeContractCommandHandler(),
		ResolveDispute:  c.CreateResolveDisputeCommandHandler(),
		ConfirmDelivery: c.CreateConfirmDeliveryCommandHandler(),

		OpenTransportRequest:     c.CreateOpenTransportRequestCommandHandler(),
		AssignTransporter:        c.CreateAssignTransporterCommandHandler(),
		AcceptJob:                c.CreateAcceptJobCommandHandler(),
		ConfirmPickup:            c.CreateConfirmPickupCommandHandler(),
		MarkInTransit:            c.CreateMarkInTransitCommandHandler(),
		ConfirmTransportDelivery: c.CreateConfirmTransportDeliveryCommandHandler(),
		CancelTransport:          c.CreateCancelTransportCommandHandler(),
		RegisterTransporter:      c.CreateRegisterTransporterCommandHandler(),

		RegisterStorageFacility: c.CreateRegisterStorageFacilityCommandHandler(),
		CreateStorageBooking:    c.CreateCreateStorageBookingCommandHandler(),
		ReleaseStorageBooking:   c.CreateReleaseStorageBookingCommandHandler(),

		InitiateEscrow:       c.CreateInitiateEscrowCommandHandler(),
		SettleFarmerPayments: c.CreateSettleFarmerPaymentsCommandHandler(),
		ConfirmPayout:        c.CreateConfirmPayoutCommandHandler(),
		FailPayout:           c.CreateFailPayoutCommandHandler(),
		RetryPayout:          c.CreateRetryPayoutCommandHandler(),

		RegisterLot:              c.CreateRegisterLotCommandHandler(),
		DeclareHarvest:           c.CreateDeclareHarvestCommandHandler(),
		ReviewHarvestDeclaration: c.CreateReviewHarvestDeclarationCommandHandler(),
		CreateListing:            c.CreateCreateListingCommandHandler(),
		CancelListing:            c.CreateCancelListingCommandHandler(),

		GetContract:        c.CreateGetContractQueryHandler(),
		SuggestLots:        c.CreateSuggestLotsQueryHandler(),
		GetTransporterJobs: c.CreateGetTransporterJobsQueryHandler(),
		GetFarmerBalances:  c.CreateGetFarmerBalancesQueryHandler(),
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRelayOutboxCommandHandler(),
		c.CreateAdvanceStorageBookingsCommandHandler(),
		c.CreateExpireListingsCommandHandler(),
		c.CreateDispatchPayoutsCommandHandler(),
		c.cfg.Schedules,
		c.logger,
	)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
