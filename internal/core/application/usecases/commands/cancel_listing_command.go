package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrCancelListingCommandIsNotConstructed = errors.New(
	"CancelListingCommand must be created via NewCancelListingCommand constructor",
)

type CancelListingCommand struct {
	actor     kernel.Actor
	listingID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCancelListingCommand(actor kernel.Actor, listingID kernel.UUID) (CancelListingCommand, error) {
	if err := errors.Join(actor.Validate(), listingID.Validate()); err != nil {
		return CancelListingCommand{}, err
	}
	return CancelListingCommand{actor: actor, listingID: listingID, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelListingCommand) Validate() error {
	return c.guard.Validate(ErrCancelListingCommandIsNotConstructed)
}

func (c CancelListingCommand) Actor() kernel.Actor    { return c.actor }
func (c CancelListingCommand) ListingID() kernel.UUID { return c.listingID }
