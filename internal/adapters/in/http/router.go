package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// NewRouter builds the echo instance serving the API, its docs, the event stream and the health check.
func NewRouter(ctx context.Context, s *Server, hub *EventHub, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	validateRequest, err := requestValidation(doc)
	if err != nil {
		return nil, err
	}
	if err = registerSwagger(doc); err != nil {
		return nil, err
	}

	logger = logger.With("component", "http")
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				logger.LogAttrs(c.Request().Context(), slog.LevelError, "Request failed", attrs...)
				return nil
			}
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "Request handled", attrs...)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", validateRequest, actorMiddleware)
	api.GET("/events", hub.Subscribe)

	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:orderId/response", s.RespondToOrder)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)

	api.POST("/contracts", s.FormContract)
	api.GET("/contracts/:contractId", s.GetContract)
	api.POST("/contracts/:contractId/cancel", s.CancelContract)
	api.POST("/contracts/:contractId/dispute", s.DisputeContract)
	api.POST("/contracts/:contractId/resolve", s.ResolveDispute)
	api.POST("/contracts/:contractId/confirm-delivery", s.ConfirmDelivery)
	api.POST("/contracts/:contractId/escrow", s.InitiateEscrow)
	api.POST("/contracts/:contractId/settlement", s.SettleFarmerPayments)

	api.POST("/transport-requests", s.OpenTransportRequest)
	api.POST("/transport-requests/:requestId/assign", s.AssignTransporter)
	api.POST("/transport-requests/:requestId/accept", s.AcceptJob)
	api.POST("/transport-requests/:requestId/pickup", s.ConfirmPickup)
	api.POST("/transport-requests/:requestId/in-transit", s.MarkInTransit)
	api.POST("/transport-requests/:requestId/deliver", s.ConfirmTransportDelivery)
	api.POST("/transport-requests/:requestId/cancel", s.CancelTransport)
	api.POST("/transporters", s.RegisterTransporter)
	api.GET("/transporters/:transporterId/jobs", s.GetTransporterJobs)

	api.POST("/storage-facilities", s.RegisterStorageFacility)
	api.POST("/storage-bookings", s.CreateStorageBooking)
	api.POST("/storage-bookings/:bookingId/release", s.ReleaseStorageBooking)

	api.POST("/payouts/:balanceId/confirm", s.ConfirmPayout)
	api.POST("/payouts/:balanceId/fail", s.FailPayout)
	api.POST("/payouts/:balanceId/retry", s.RetryPayout)
	api.GET("/farmers/:farmerId/balances", s.GetFarmerBalances)

	api.POST("/lots", s.RegisterLot)
	api.GET("/cooperatives/:cooperativeId/lot-suggestions", s.SuggestLots)
	api.POST("/harvest-declarations", s.DeclareHarvest)
	api.POST("/harvest-declarations/:declarationId/review", s.ReviewHarvestDeclaration)
	api.POST("/listings", s.CreateListing)
	api.POST("/listings/:listingId/cancel", s.CancelListing)

	return e, nil
}
