package http

import (
	"net/http"

	"agritrade/internal/core/application/usecases/commands"
	"agritrade/internal/core/application/usecases/queries"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// RegisterLot handles POST /api/v1/lots. Lots registered by a cooperative are verified on creation.
func (s *Server) RegisterLot(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	var body registerLotRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}
	cooperativeID, err := toKernel(body.CooperativeID)
	if err != nil {
		return respondError(c, err)
	}
	farmerID, err := toKernel(body.FarmerID)
	if err != nil {
		return respondError(c, err)
	}

	lotID := kernel.NewUUID()
	cmd, err := commands.NewRegisterLotCommand(actor, lotID, cooperativeID, farmerID, body.Crop, body.QuantityKg,
		body.QualityGrade, body.ExpectedHarvestDate)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.RegisterLot.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: lotID.String()})
}

// DeclareHarvest handles POST /api/v1/harvest-declarations, filed by a farmer.
func (s *Server) DeclareHarvest(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	var body declareHarvestRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}
	cooperativeID, err := toKernel(body.CooperativeID)
	if err != nil {
		return respondError(c, err)
	}

	declarationID := kernel.NewUUID()
	cmd, err := commands.NewDeclareHarvestCommand(actor, declarationID, cooperativeID, body.Crop,
		body.ExpectedQuantityKg, body.ExpectedHarvestDate, body.QualityGrade)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.DeclareHarvest.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: declarationID.String()})
}

// ReviewHarvestDeclaration handles POST /api/v1/harvest-declarations/{declarationId}/review.
// An approval answers with the id of the lot it created.
func (s *Server) ReviewHarvestDeclaration(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	declarationID, err := pathUUID(c, "declarationId")
	if err != nil {
		return respondError(c, err)
	}
	var body reviewHarvestRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}
	cmd, err := commands.NewReviewHarvestDeclarationCommand(actor, declarationID, *body.Approved, body.MeasuredKg, body.Note)
	if err != nil {
		return respondError(c, err)
	}
	lotID, err := s.h.ReviewHarvestDeclaration.Handle(c.Request().Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reviewResponse{LotID: idString(lotID)})
}

// CreateListing handles POST /api/v1/listings.
func (s *Server) CreateListing(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	var body createListingRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}
	cooperativeID, err := toKernel(body.CooperativeID)
	if err != nil {
		return respondError(c, err)
	}
	window, err := body.Availability.toKernel()
	if err != nil {
		return respondError(c, err)
	}

	listingID := kernel.NewUUID()
	cmd, err := commands.NewCreateListingCommand(actor, listingID, cooperativeID, body.Crop, body.QuantityKg,
		body.MinimumPrice, window)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.CreateListing.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: listingID.String()})
}

func (s *Server) CancelListing(c echo.Context) error {
	return handleByID(c, "listingId", commands.NewCancelListingCommand, s.h.CancelListing)
}

// SuggestLots handles GET /api/v1/cooperatives/{cooperativeId}/lot-suggestions?crop=Maize&limit=10.
func (s *Server) SuggestLots(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	cooperativeID, err := pathUUID(c, "cooperativeId")
	if err != nil {
		return respondError(c, err)
	}
	var crop string
	if err = runtime.BindQueryParameter("form", true, true, "crop", c.QueryParams(), &crop); err != nil {
		return respondError(c, errs.NewValueIsRequiredErrorWithCause("crop", err))
	}
	var limit *int
	if err = runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &limit); err != nil {
		return respondError(c, errs.NewValueIsInvalidErrorWithCause("limit", err))
	}
	n := 0
	if limit != nil {
		n = *limit
	}

	query, err := queries.NewSuggestLotsQuery(actor, cooperativeID, crop, n)
	if err != nil {
		return respondError(c, err)
	}
	lots, err := s.h.SuggestLots.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toLotSuggestions(lots))
}
