package http

import (
	"net/http"
	"strings"

	"agritrade/internal/core/application/usecases/commands"
	"agritrade/internal/core/application/usecases/queries"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// OpenTransportRequest handles POST /api/v1/transport-requests.
func (s *Server) OpenTransportRequest(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	var body openTransportRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}
	contractID, err := toKernel(body.ContractID)
	if err != nil {
		return respondError(c, err)
	}
	window, err := optionalWindow(body.PickupWindow)
	if err != nil {
		return respondError(c, err)
	}

	requestID := kernel.NewUUID()
	cmd, err := commands.NewOpenTransportRequestCommand(actor, commands.TransportRequestDetails{
		RequestID:    requestID,
		ContractID:   contractID,
		Origin:       body.Origin,
		LoadKg:       body.LoadKg,
		PickupWindow: window,
		Price:        body.Price,
	})
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.OpenTransportRequest.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: requestID.String()})
}

// AssignTransporter handles POST /api/v1/transport-requests/{requestId}/assign.
// Without a transporterId the dispatcher picks one.
func (s *Server) AssignTransporter(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	requestID, err := pathUUID(c, "requestId")
	if err != nil {
		return respondError(c, err)
	}
	var body assignTransporterRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}
	transporterID, err := toKernelPtr(body.TransporterID)
	if err != nil {
		return respondError(c, err)
	}
	cmd, err := commands.NewAssignTransporterCommand(actor, requestID, transporterID)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.AssignTransporter.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AcceptJob handles POST /api/v1/transport-requests/{requestId}/accept.
func (s *Server) AcceptJob(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	requestID, err := pathUUID(c, "requestId")
	if err != nil {
		return respondError(c, err)
	}
	var body acceptJobRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}
	cmd, err := commands.NewAcceptJobCommand(actor, requestID, body.Truck, body.DriverPhone)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.AcceptJob.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) ConfirmPickup(c echo.Context) error {
	return handleByID(c, "requestId", commands.NewConfirmPickupCommand, s.h.ConfirmPickup)
}

func (s *Server) MarkInTransit(c echo.Context) error {
	return handleByID(c, "requestId", commands.NewMarkInTransitCommand, s.h.MarkInTransit)
}

// ConfirmTransportDelivery handles POST /api/v1/transport-requests/{requestId}/deliver.
func (s *Server) ConfirmTransportDelivery(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	requestID, err := pathUUID(c, "requestId")
	if err != nil {
		return respondError(c, err)
	}
	var body deliverRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}
	cmd, err := commands.NewConfirmTransportDeliveryCommand(actor, requestID, body.Notes, body.ProofURL)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.ConfirmTransportDelivery.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) CancelTransport(c echo.Context) error {
	return handleByID(c, "requestId", commands.NewCancelTransportCommand, s.h.CancelTransport)
}

// RegisterTransporter handles POST /api/v1/transporters. A transporter registers under its own party id.
func (s *Server) RegisterTransporter(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	var body registerTransporterRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}

	transporterID := kernel.NewUUID()
	switch {
	case body.TransporterID != nil:
		if transporterID, err = toKernel(*body.TransporterID); err != nil {
			return respondError(c, err)
		}
	case actor.PartyID() != nil:
		transporterID = *actor.PartyID()
	}

	cmd, err := commands.NewRegisterTransporterCommand(actor, transporterID, body.Name, body.CapacityKg,
		body.LicensePlate, body.Phone)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.RegisterTransporter.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: transporterID.String()})
}

// GetTransporterJobs handles GET /api/v1/transporters/{transporterId}/jobs?status=Assigned,Accepted.
func (s *Server) GetTransporterJobs(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	transporterID, err := pathUUID(c, "transporterId")
	if err != nil {
		return respondError(c, err)
	}
	var filter *string
	if err = runtime.BindQueryParameter("form", true, false, "status", c.QueryParams(), &filter); err != nil {
		return respondError(c, errs.NewValueIsInvalidErrorWithCause("status", err))
	}
	var statuses []transport.Status
	if filter != nil && *filter != "" {
		for _, name := range strings.Split(*filter, ",") {
			st, parseErr := transport.StatusFromString(strings.TrimSpace(name))
			if parseErr != nil {
				return respondError(c, errs.NewValueIsInvalidErrorWithCause("status", parseErr))
			}
			statuses = append(statuses, st)
		}
	}

	query, err := queries.NewGetTransporterJobsQuery(actor, transporterID, statuses)
	if err != nil {
		return respondError(c, err)
	}
	jobs, err := s.h.GetTransporterJobs.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toTransporterJobs(jobs))
}

// RegisterStorageFacility handles POST /api/v1/storage-facilities.
func (s *Server) RegisterStorageFacility(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	var body registerFacilityRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}
	facilityID := kernel.NewUUID()
	cmd, err := commands.NewRegisterStorageFacilityCommand(actor, facilityID, body.Name, body.Location, body.CapacityKg)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.RegisterStorageFacility.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: facilityID.String()})
}

// CreateStorageBooking handles POST /api/v1/storage-bookings.
func (s *Server) CreateStorageBooking(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	var body createBookingRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}
	facilityID, err := toKernel(body.FacilityID)
	if err != nil {
		return respondError(c, err)
	}
	contractID, err := toKernelPtr(body.ContractID)
	if err != nil {
		return respondError(c, err)
	}
	lotID, err := toKernelPtr(body.LotID)
	if err != nil {
		return respondError(c, err)
	}
	window, err := optionalWindow(body.Window)
	if err != nil {
		return respondError(c, err)
	}

	bookingID := kernel.NewUUID()
	cmd, err := commands.NewCreateStorageBookingCommand(actor, commands.StorageBookingRequest{
		BookingID:  bookingID,
		FacilityID: facilityID,
		ContractID: contractID,
		LotID:      lotID,
		QuantityKg: body.QuantityKg,
		Window:     window,
	})
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.CreateStorageBooking.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: bookingID.String()})
}

func (s *Server) ReleaseStorageBooking(c echo.Context) error {
	return handleByID(c, "bookingId", commands.NewReleaseStorageBookingCommand, s.h.ReleaseStorageBooking)
}
