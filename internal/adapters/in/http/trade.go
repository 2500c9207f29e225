package http

import (
	"net/http"

	"agritrade/internal/core/application/usecases/commands"
	"agritrade/internal/core/application/usecases/queries"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	var body createOrderRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}

	buyerID := actor.PartyID()
	if body.BuyerID != nil {
		if buyerID, err = toKernelPtr(body.BuyerID); err != nil {
			return respondError(c, err)
		}
	}
	if buyerID == nil {
		return respondError(c, errs.NewValueIsRequiredError("buyerId"))
	}
	listingID, err := toKernelPtr(body.ListingID)
	if err != nil {
		return respondError(c, err)
	}
	cooperativeID, err := toKernelPtr(body.CooperativeID)
	if err != nil {
		return respondError(c, err)
	}
	window, err := body.DeliveryWindow.toKernel()
	if err != nil {
		return respondError(c, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(actor, commands.OrderRequest{
		OrderID:          orderID,
		BuyerID:          *buyerID,
		ListingID:        listingID,
		CooperativeID:    cooperativeID,
		Crop:             body.Crop,
		QuantityKg:       body.QuantityKg,
		PriceOffer:       body.PriceOffer,
		DeliveryLocation: body.DeliveryLocation,
		DeliveryWindow:   window,
	})
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.CreateOrder.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: orderID.String()})
}

// RespondToOrder handles POST /api/v1/orders/{orderId}/response.
func (s *Server) RespondToOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return respondError(c, err)
	}
	var body respondToOrderRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}
	cmd, err := commands.NewRespondToOrderCommand(actor, orderID, *body.Accepted)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.RespondToOrder.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	return handleByID(c, "orderId", commands.NewCancelOrderCommand, s.h.CancelOrder)
}

// FormContract handles POST /api/v1/contracts. A missing agreedPrice takes the order's price offer.
func (s *Server) FormContract(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	var body formContractRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}
	orderID, err := toKernel(body.OrderID)
	if err != nil {
		return respondError(c, err)
	}
	lotIDs, err := toKernelSlice(body.LotIDs)
	if err != nil {
		return respondError(c, err)
	}
	price := decimal.Zero
	if body.AgreedPrice != nil {
		price = *body.AgreedPrice
	}

	contractID := kernel.NewUUID()
	cmd, err := commands.NewFormContractCommand(actor, contractID, orderID, lotIDs, price)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.FormContract.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: contractID.String()})
}

// GetContract handles GET /api/v1/contracts/{contractId}.
func (s *Server) GetContract(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	contractID, err := pathUUID(c, "contractId")
	if err != nil {
		return respondError(c, err)
	}
	query, err := queries.NewGetContractQuery(actor, contractID)
	if err != nil {
		return respondError(c, err)
	}
	view, err := s.h.GetContract.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toContractResponse(view))
}

func (s *Server) CancelContract(c echo.Context) error {
	return handleByID(c, "contractId", commands.NewCancelContractCommand, s.h.CancelContract)
}

func (s *Server) DisputeContract(c echo.Context) error {
	return handleByID(c, "contractId", commands.NewDisputeContractCommand, s.h.DisputeContract)
}

func (s *Server) ResolveDispute(c echo.Context) error {
	return handleByID(c, "contractId", commands.NewResolveDisputeCommand, s.h.ResolveDispute)
}

// ConfirmDelivery handles POST /api/v1/contracts/{contractId}/confirm-delivery, the buyer's receipt.
func (s *Server) ConfirmDelivery(c echo.Context) error {
	return handleByID(c, "contractId", commands.NewConfirmDeliveryCommand, s.h.ConfirmDelivery)
}

// InitiateEscrow handles POST /api/v1/contracts/{contractId}/escrow.
func (s *Server) InitiateEscrow(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	contractID, err := pathUUID(c, "contractId")
	if err != nil {
		return respondError(c, err)
	}
	entryID := kernel.NewUUID()
	cmd, err := commands.NewInitiateEscrowCommand(actor, entryID, contractID)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.InitiateEscrow.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: entryID.String()})
}

// SettleFarmerPayments handles POST /api/v1/contracts/{contractId}/settlement.
func (s *Server) SettleFarmerPayments(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	contractID, err := pathUUID(c, "contractId")
	if err != nil {
		return respondError(c, err)
	}
	var body settleRequest
	if err = bindBody(c, &body); err != nil {
		return respondError(c, err)
	}
	method, err := settlement.PaymentMethodFromString(body.Method)
	if err != nil {
		return respondError(c, err)
	}
	cmd, err := commands.NewSettleFarmerPaymentsCommand(actor, contractID, method)
	if err != nil {
		return respondError(c, err)
	}
	ids, err := s.h.SettleFarmerPayments.Handle(c.Request().Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}
	resp := settlementResponse{BalanceIDs: make([]string, 0, len(ids))}
	for _, id := range ids {
		resp.BalanceIDs = append(resp.BalanceIDs, id.String())
	}
	return c.JSON(http.StatusCreated, resp)
}

// handleByID covers the commands that need nothing but the caller and one path identifier.
func handleByID[C any](
	c echo.Context,
	param string,
	build func(kernel.Actor, kernel.UUID) (C, error),
	h CommandHandler[C],
) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathUUID(c, param)
	if err != nil {
		return respondError(c, err)
	}
	cmd, err := build(actor, id)
	if err != nil {
		return respondError(c, err)
	}
	if err = h.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
