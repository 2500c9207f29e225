package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderTargetIsRequired = errs.NewValueIsRequiredError("listingId or cooperativeId")
)

type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	actor            kernel.Actor
	orderID          kernel.UUID
	buyerID          kernel.UUID
	listingID        *kernel.UUID
	cooperativeID    *kernel.UUID
	crop             string
	quantityKg       decimal.Decimal
	priceOffer       decimal.Decimal
	deliveryLocation string
	deliveryWindow   kernel.TimeWindow

	guard guard.ConstructorGuard
}

// OrderRequest carries the buyer's input for NewCreateOrderCommand.
type OrderRequest struct {
	OrderID          kernel.UUID
	BuyerID          kernel.UUID
	ListingID        *kernel.UUID
	CooperativeID    *kernel.UUID
	Crop             string
	QuantityKg       decimal.Decimal
	PriceOffer       decimal.Decimal
	DeliveryLocation string
	DeliveryWindow   kernel.TimeWindow
}

func NewCreateOrderCommand(actor kernel.Actor, req OrderRequest) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		actor.Validate(),
		cmd.setIDs(req.OrderID, req.BuyerID),
		cmd.setTarget(req.ListingID, req.CooperativeID),
		kernel.ValidateRequiredText("crop", req.Crop),
		kernel.ValidatePositive("quantityKg", req.QuantityKg),
		kernel.ValidatePositive("priceOffer", req.PriceOffer),
		kernel.ValidateRequiredText("deliveryLocation", req.DeliveryLocation),
		req.DeliveryWindow.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.actor = actor
	cmd.crop = req.Crop
	cmd.quantityKg = req.QuantityKg
	cmd.priceOffer = req.PriceOffer
	cmd.deliveryLocation = req.DeliveryLocation
	cmd.deliveryWindow = req.DeliveryWindow
	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() kernel.Actor               { return c.actor }
func (c CreateOrderCommand) OrderID() kernel.UUID              { return c.orderID }
func (c CreateOrderCommand) BuyerID() kernel.UUID              { return c.buyerID }
func (c CreateOrderCommand) ListingID() *kernel.UUID           { return c.listingID }
func (c CreateOrderCommand) CooperativeID() *kernel.UUID       { return c.cooperativeID }
func (c CreateOrderCommand) Crop() string                      { return c.crop }
func (c CreateOrderCommand) QuantityKg() decimal.Decimal       { return c.quantityKg }
func (c CreateOrderCommand) PriceOffer() decimal.Decimal       { return c.priceOffer }
func (c CreateOrderCommand) DeliveryLocation() string          { return c.deliveryLocation }
func (c CreateOrderCommand) DeliveryWindow() kernel.TimeWindow { return c.deliveryWindow }

func (c *CreateOrderCommand) setIDs(orderID, buyerID kernel.UUID) error {
	if err := errors.Join(orderID.Validate(), buyerID.Validate()); err != nil {
		return err
	}
	c.orderID = orderID
	c.buyerID = buyerID
	return nil
}

// setTarget requires a listing or, for a free-form offer, the addressed cooperative.
func (c *CreateOrderCommand) setTarget(listingID, cooperativeID *kernel.UUID) error {
	switch {
	case listingID != nil:
		if err := listingID.Validate(); err != nil {
			return err
		}
		id := *listingID
		c.listingID = &id
	case cooperativeID != nil:
		if err := cooperativeID.Validate(); err != nil {
			return err
		}
		id := *cooperativeID
		c.cooperativeID = &id
	default:
		return ErrOrderTargetIsRequired
	}
	return nil
}
