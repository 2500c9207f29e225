package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrReleaseStorageBookingCommandIsNotConstructed = errors.New(
	"ReleaseStorageBookingCommand must be created via NewReleaseStorageBookingCommand constructor",
)

type ReleaseStorageBookingCommand struct {
	actor     kernel.Actor
	bookingID kernel.UUID

	guard guard.ConstructorGuard
}

func NewReleaseStorageBookingCommand(actor kernel.Actor, bookingID kernel.UUID) (ReleaseStorageBookingCommand, error) {
	if err := errors.Join(actor.Validate(), bookingID.Validate()); err != nil {
		return ReleaseStorageBookingCommand{}, err
	}
	return ReleaseStorageBookingCommand{actor: actor, bookingID: bookingID, guard: guard.NewConstructorGuard()}, nil
}

func (c ReleaseStorageBookingCommand) Validate() error {
	return c.guard.Validate(ErrReleaseStorageBookingCommandIsNotConstructed)
}

func (c ReleaseStorageBookingCommand) Actor() kernel.Actor    { return c.actor }
func (c ReleaseStorageBookingCommand) BookingID() kernel.UUID { return c.bookingID }
