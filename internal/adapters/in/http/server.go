package http

import (
	"context"

	"agritrade/internal/core/application/usecases/commands"
	"agritrade/internal/core/application/usecases/queries"
	"agritrade/internal/core/domain/model/kernel"
)

// CommandHandler is satisfied by every command handler that returns only an error.
type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// ResultHandler is satisfied by query handlers and by commands that return what they created.
type ResultHandler[C, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	CreateOrder    CommandHandler[commands.CreateOrderCommand]
	RespondToOrder CommandHandler[commands.RespondToOrderCommand]
	CancelOrder    CommandHandler[commands.CancelOrderCommand]

	FormContract    CommandHandler[commands.FormContractCommand]
	CancelContract  CommandHandler[commands.CancelContractCommand]
	DisputeContract CommandHandler[commands.DisputeContractCommand]
	ResolveDispute  CommandHandler[commands.ResolveDisputeCommand]
	ConfirmDelivery CommandHandler[commands.ConfirmDeliveryCommand]

	OpenTransportRequest     CommandHandler[commands.OpenTransportRequestCommand]
	AssignTransporter        CommandHandler[commands.AssignTransporterCommand]
	AcceptJob                CommandHandler[commands.AcceptJobCommand]
	ConfirmPickup            CommandHandler[commands.ConfirmPickupCommand]
	MarkInTransit            CommandHandler[commands.MarkInTransitCommand]
	ConfirmTransportDelivery CommandHandler[commands.ConfirmTransportDeliveryCommand]
	CancelTransport          CommandHandler[commands.CancelTransportCommand]
	RegisterTransporter      CommandHandler[commands.RegisterTransporterCommand]

	RegisterStorageFacility CommandHandler[commands.RegisterStorageFacilityCommand]
	CreateStorageBooking    CommandHandler[commands.CreateStorageBookingCommand]
	ReleaseStorageBooking   CommandHandler[commands.ReleaseStorageBookingCommand]

	InitiateEscrow       CommandHandler[commands.InitiateEscrowCommand]
	SettleFarmerPayments ResultHandler[commands.SettleFarmerPaymentsCommand, []kernel.UUID]
	ConfirmPayout        CommandHandler[commands.ConfirmPayoutCommand]
	FailPayout           CommandHandler[commands.FailPayoutCommand]
	RetryPayout          CommandHandler[commands.RetryPayoutCommand]

	RegisterLot              CommandHandler[commands.RegisterLotCommand]
	DeclareHarvest           CommandHandler[commands.DeclareHarvestCommand]
	ReviewHarvestDeclaration ResultHandler[commands.ReviewHarvestDeclarationCommand, *kernel.UUID]
	CreateListing            CommandHandler[commands.CreateListingCommand]
	CancelListing            CommandHandler[commands.CancelListingCommand]

	GetContract        ResultHandler[queries.GetContractQuery, *queries.GetContractQueryResponse]
	SuggestLots        ResultHandler[queries.SuggestLotsQuery, []queries.SuggestLotsQueryResponse]
	GetTransporterJobs ResultHandler[queries.GetTransporterJobsQuery, []queries.GetTransporterJobsQueryResponse]
	GetFarmerBalances  ResultHandler[queries.GetFarmerBalancesQuery, *queries.GetFarmerBalancesQueryResponse]
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h Handlers
}

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}
