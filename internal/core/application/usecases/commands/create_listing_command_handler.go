package commands

import (
	"context"
	"fmt"

	"agritrade/internal/core/domain/model/listing"
	"agritrade/internal/core/ports"
)

// CreateListingCommandHandler puts a cooperative's stock on the market. The listed
// quantity must be backed by verified lots that are still listed.
type CreateListingCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewCreateListingCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) CreateListingCommandHandler {
	return CreateListingCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h CreateListingCommandHandler) Handle(ctx context.Context, cmd CreateListingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceListing, ports.ActionCreate, cmd.CooperativeID()); err != nil {
		return err
	}

	l, err := listing.NewListing(cmd.ListingID(), cmd.CooperativeID(), cmd.Crop(),
		cmd.QuantityKg(), cmd.MinimumPrice(), cmd.Window())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	stock, err := uow.LotRepository().SumListedKg(ctx, cmd.CooperativeID(), cmd.Crop())
	if err != nil {
		return err
	}
	if stock.LessThan(cmd.QuantityKg()) {
		return fmt.Errorf("%w: %s kg listed in lots, %s kg offered", ErrInsufficientListing, stock, cmd.QuantityKg())
	}

	if err = uow.ListingRepository().Add(ctx, l); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "listing.create", cmd.Actor(), l.ID(), map[string]any{
		"crop":         l.Crop(),
		"quantityKg":   l.QuantityKg().String(),
		"minimumPrice": l.MinimumPrice().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
