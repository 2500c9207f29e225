package order

import (
	"errors"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the buyer's request to buy quantityKg of crop for a total of priceOffer,
// delivered to deliveryLocation within deliveryWindow.
//
// cooperativeID is always set: for listing orders it is copied from the listing.
type Order struct {
	id               kernel.UUID
	buyerID          kernel.UUID
	cooperativeID    kernel.UUID
	listingID        *kernel.UUID
	crop             string
	quantityKg       decimal.Decimal
	priceOffer       decimal.Decimal
	deliveryLocation string
	deliveryWindow   kernel.TimeWindow
	status           Status
	createdAt        time.Time
	guard            guard.ConstructorGuard

	kernel.EventRecorder
}

// Params groups the order attributes shared by NewOrder and RestoreOrder.
type Params struct {
	ID               kernel.UUID
	BuyerID          kernel.UUID
	CooperativeID    kernel.UUID
	ListingID        *kernel.UUID
	Crop             string
	QuantityKg       decimal.Decimal
	PriceOffer       decimal.Decimal
	DeliveryLocation string
	DeliveryWindow   kernel.TimeWindow
}

func NewOrder(p Params, now time.Time) (*Order, error) {
	o := &Order{
		status:    Open,
		createdAt: now.UTC(),
		guard:     guard.NewConstructorGuard(),
	}
	if err := o.set(p); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"buyerId":       p.BuyerID.String(),
		"cooperativeId": p.CooperativeID.String(),
		"crop":          p.Crop,
		"quantityKg":    p.QuantityKg.String(),
		"priceOffer":    p.PriceOffer.String(),
	}
	if p.ListingID != nil {
		payload["listingId"] = p.ListingID.String()
	}
	o.Record("OrderCreated", o.id, payload)
	return o, nil
}

func RestoreOrder(p Params, status Status, createdAt time.Time) (*Order, error) {
	o := &Order{guard: guard.NewConstructorGuard()}
	if err := errors.Join(o.set(p), status.Validate()); err != nil {
		return nil, err
	}
	o.status = status
	o.createdAt = createdAt
	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                   { return o.id }
func (o *Order) BuyerID() kernel.UUID              { return o.buyerID }
func (o *Order) CooperativeID() kernel.UUID        { return o.cooperativeID }
func (o *Order) Crop() string                      { return o.crop }
func (o *Order) QuantityKg() decimal.Decimal       { return o.quantityKg }
func (o *Order) PriceOffer() decimal.Decimal       { return o.priceOffer }
func (o *Order) DeliveryLocation() string          { return o.deliveryLocation }
func (o *Order) DeliveryWindow() kernel.TimeWindow { return o.deliveryWindow }
func (o *Order) Status() Status                    { return o.status }
func (o *Order) CreatedAt() time.Time              { return o.createdAt }

// ListingID returns nil for free-form offers.
func (o *Order) ListingID() *kernel.UUID {
	if o.listingID == nil {
		return nil
	}
	id := *o.listingID
	return &id
}

// Respond accepts or rejects an open order.
func (o *Order) Respond(accepted bool) error {
	if accepted {
		return o.transition(actionAccept, "OrderAccepted")
	}
	return o.transition(actionReject, "OrderRejected")
}

// Cancel withdraws the order. Callers must make sure no contract was formed for it.
func (o *Order) Cancel() error {
	return o.transition(actionCancel, "OrderCancelled")
}

func (o *Order) transition(a action, event string) error {
	to, err := o.status.next(a)
	if err != nil {
		return err
	}
	o.status = to
	o.Record(event, o.id, map[string]any{
		"buyerId":       o.buyerID.String(),
		"cooperativeId": o.cooperativeID.String(),
	})
	return nil
}

func (o *Order) set(p Params) error {
	var listingErr error
	if p.ListingID != nil {
		listingErr = p.ListingID.Validate()
	}

	if err := errors.Join(
		p.ID.Validate(),
		p.BuyerID.Validate(),
		p.CooperativeID.Validate(),
		listingErr,
		kernel.ValidateRequiredText("crop", p.Crop),
		kernel.ValidatePositive("quantityKg", p.QuantityKg),
		kernel.ValidateNonNegative("priceOffer", p.PriceOffer),
		kernel.ValidateRequiredText("deliveryLocation", p.DeliveryLocation),
		p.DeliveryWindow.Validate(),
	); err != nil {
		return err
	}

	if !p.PriceOffer.IsPositive() {
		return errs.NewValueIsRequiredError("priceOffer")
	}

	o.id = p.ID
	o.buyerID = p.BuyerID
	o.cooperativeID = p.CooperativeID
	if p.ListingID != nil {
		id := *p.ListingID
		o.listingID = &id
	}
	o.crop = p.Crop
	o.quantityKg = p.QuantityKg
	o.priceOffer = p.PriceOffer
	o.deliveryLocation = p.DeliveryLocation
	o.deliveryWindow = p.DeliveryWindow
	return nil
}
