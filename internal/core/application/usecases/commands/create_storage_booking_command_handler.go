package commands

import (
	"context"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/storage"
	"agritrade/internal/core/ports"
)

// CreateStorageBookingCommandHandler takes facility capacity in the same transaction as
// the booking insert. The facility row stays locked until commit, so concurrent bookings
// cannot oversell it. Booking for a draft contract activates it.
type CreateStorageBookingCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewCreateStorageBookingCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) CreateStorageBookingCommandHandler {
	return CreateStorageBookingCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h CreateStorageBookingCommandHandler) Handle(ctx context.Context, cmd CreateStorageBookingCommand) error {
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

	contracts := uow.ContractRepository()
	if contractID := cmd.ContractID(); contractID != nil {
		c, err := contracts.Get(ctx, *contractID)
		if err != nil {
			return err
		}
		if err = ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceStorage, ports.ActionCreate, c.CooperativeID()); err != nil {
			return err
		}
		if err = c.Activate(); err != nil {
			return err
		}
		if err = contracts.Update(ctx, c); err != nil {
			return err
		}
	} else if err := ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceStorage, ports.ActionCreate); err != nil {
		return err
	}

	now := time.Now()
	window, err := kernel.NewTimeWindowFrom(now, storage.DefaultBookingLength)
	if err != nil {
		return err
	}
	if w := cmd.Window(); w != nil {
		window = *w
	}

	facilities := uow.StorageFacilityRepository()
	facility, err := facilities.Get(ctx, cmd.FacilityID())
	if err != nil {
		return err
	}
	b, err := storage.NewBooking(storage.Params{
		ID:         cmd.BookingID(),
		FacilityID: facility.ID(),
		ContractID: cmd.ContractID(),
		LotID:      cmd.LotID(),
		QuantityKg: cmd.QuantityKg(),
		Window:     window,
	}, facility)
	if err != nil {
		return err
	}
	if err = uow.StorageBookingRepository().Add(ctx, b); err != nil {
		return err
	}
	if err = facilities.Update(ctx, facility); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "storage.book", cmd.Actor(), b.ID(), map[string]any{
		"facilityId":  facility.ID().String(),
		"quantityKg":  b.QuantityKg().String(),
		"availableKg": facility.AvailableKg().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
