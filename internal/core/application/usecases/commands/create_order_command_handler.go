package commands

import (
	"context"
	"time"

	"agritrade/internal/core/domain/model/order"
	"agritrade/internal/core/ports"
)

// CreateOrderCommandHandler records a buyer's purchase request. Orders against a
// listing inherit its cooperative and must fit its crop, quantity and minimum price.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewCreateOrderCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceOrder, ports.ActionCreate, cmd.BuyerID()); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now()
	params := order.Params{
		ID:               cmd.OrderID(),
		BuyerID:          cmd.BuyerID(),
		ListingID:        cmd.ListingID(),
		Crop:             cmd.Crop(),
		QuantityKg:       cmd.QuantityKg(),
		PriceOffer:       cmd.PriceOffer(),
		DeliveryLocation: cmd.DeliveryLocation(),
		DeliveryWindow:   cmd.DeliveryWindow(),
	}

	if listingID := cmd.ListingID(); listingID != nil {
		l, err := uow.ListingRepository().Get(ctx, *listingID)
		if err != nil {
			return err
		}
		if err = l.CheckOrder(cmd.Crop(), cmd.QuantityKg(), cmd.PriceOffer(), now); err != nil {
			return err
		}
		params.CooperativeID = l.CooperativeID()
	} else {
		params.CooperativeID = *cmd.CooperativeID()
	}

	o, err := order.NewOrder(params, now)
	if err != nil {
		return err
	}
	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "order.create", cmd.Actor(), o.ID(), map[string]any{
		"cooperativeId": o.CooperativeID().String(),
		"crop":          o.Crop(),
		"quantityKg":    o.QuantityKg().String(),
		"priceOffer":    o.PriceOffer().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
