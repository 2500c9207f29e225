package commands

import (
	"context"

	"agritrade/internal/core/ports"
)

type CancelListingCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewCancelListingCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) CancelListingCommandHandler {
	return CancelListingCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h CancelListingCommandHandler) Handle(ctx context.Context, cmd CancelListingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	listings := uow.ListingRepository()
	l, err := listings.Get(ctx, cmd.ListingID())
	if err != nil {
		return err
	}
	if err = ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceListing, ports.ActionCancel, l.CooperativeID()); err != nil {
		return err
	}
	if err = l.Cancel(); err != nil {
		return err
	}
	if err = listings.Update(ctx, l); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "listing.cancel", cmd.Actor(), l.ID(), nil); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
