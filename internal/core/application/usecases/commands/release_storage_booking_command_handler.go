package commands

import (
	"context"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/ports"
)

type ReleaseStorageBookingCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewReleaseStorageBookingCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) ReleaseStorageBookingCommandHandler {
	return ReleaseStorageBookingCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h ReleaseStorageBookingCommandHandler) Handle(ctx context.Context, cmd ReleaseStorageBookingCommand) error {
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

	bookings := uow.StorageBookingRepository()
	b, err := bookings.Get(ctx, cmd.BookingID())
	if err != nil {
		return err
	}
	var parties []kernel.UUID
	if contractID := b.ContractID(); contractID != nil {
		c, getErr := uow.ContractRepository().Get(ctx, *contractID)
		if getErr != nil {
			return getErr
		}
		parties = append(parties, c.CooperativeID())
	}
	if err = ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceStorage, ports.ActionRelease, parties...); err != nil {
		return err
	}

	facilities := uow.StorageFacilityRepository()
	facility, err := facilities.Get(ctx, b.FacilityID())
	if err != nil {
		return err
	}
	if err = b.Release(facility); err != nil {
		return err
	}
	if err = bookings.Update(ctx, b); err != nil {
		return err
	}
	if err = facilities.Update(ctx, facility); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "storage.release", cmd.Actor(), b.ID(), map[string]any{
		"facilityId":  facility.ID().String(),
		"availableKg": facility.AvailableKg().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
