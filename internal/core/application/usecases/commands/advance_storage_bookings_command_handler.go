package commands

import (
	"context"
)

type AdvanceStorageBookingsCommandHandler struct {
	uowFactory UoWFactory
}

func NewAdvanceStorageBookingsCommandHandler(uowFactory UoWFactory) AdvanceStorageBookingsCommandHandler {
	return AdvanceStorageBookingsCommandHandler{uowFactory: uowFactory}
}

// Handle activates bookings whose window has started and releases those whose window
// has ended. It returns how many bookings changed status.
func (h AdvanceStorageBookingsCommandHandler) Handle(ctx context.Context, cmd AdvanceStorageBookingsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	bookings := uow.StorageBookingRepository()
	facilities := uow.StorageFacilityRepository()
	due, err := bookings.GetDue(ctx, cmd.Now(), cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, b := range due {
		switch {
		case b.IsExpired(cmd.Now()):
			facility, getErr := facilities.Get(ctx, b.FacilityID())
			if getErr != nil {
				return 0, getErr
			}
			if err = b.Release(facility); err != nil {
				return 0, err
			}
			if err = facilities.Update(ctx, facility); err != nil {
				return 0, err
			}
		case b.IsDueForActivation(cmd.Now()):
			if err = b.Activate(cmd.Now()); err != nil {
				return 0, err
			}
		default:
			continue
		}
		if err = bookings.Update(ctx, b); err != nil {
			return 0, err
		}
		changed++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return changed, nil
}
