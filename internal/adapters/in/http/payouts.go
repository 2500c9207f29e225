package http

import (
	"net/http"

	"agritrade/internal/core/application/usecases/commands"
	"agritrade/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// ConfirmPayout handles POST /api/v1/payouts/{balanceId}/confirm for payouts settled outside the gateway.
func (s *Server) ConfirmPayout(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	balanceID, err := pathUUID(c, "balanceId")
	if err != nil {
		return respondError(c, err)
	}
	var body confirmPayoutRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}
	cmd, err := commands.NewConfirmPayoutCommand(actor, balanceID, body.TransactionReference)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.ConfirmPayout.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) FailPayout(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	balanceID, err := pathUUID(c, "balanceId")
	if err != nil {
		return respondError(c, err)
	}
	var body failPayoutRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}
	cmd, err := commands.NewFailPayoutCommand(actor, balanceID, body.Reason)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.FailPayout.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) RetryPayout(c echo.Context) error {
	return handleByID(c, "balanceId", commands.NewRetryPayoutCommand, s.h.RetryPayout)
}

// GetFarmerBalances handles GET /api/v1/farmers/{farmerId}/balances.
func (s *Server) GetFarmerBalances(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	farmerID, err := pathUUID(c, "farmerId")
	if err != nil {
		return respondError(c, err)
	}
	query, err := queries.NewGetFarmerBalancesQuery(actor, farmerID)
	if err != nil {
		return respondError(c, err)
	}
	balances, err := s.h.GetFarmerBalances.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toFarmerBalances(balances))
}
