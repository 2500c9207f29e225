package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateListingCommandIsNotConstructed = errors.New(
	"CreateListingCommand must be created via NewCreateListingCommand constructor",
)

type CreateListingCommand struct {
	actor         kernel.Actor
	listingID     kernel.UUID
	cooperativeID kernel.UUID
	crop          string
	quantityKg    decimal.Decimal
	minimumPrice  decimal.Decimal
	window        kernel.TimeWindow

	guard guard.ConstructorGuard
}

func NewCreateListingCommand(
	actor kernel.Actor,
	listingID, cooperativeID kernel.UUID,
	crop string,
	quantityKg, minimumPrice decimal.Decimal,
	window kernel.TimeWindow,
) (CreateListingCommand, error) {
	if err := errors.Join(
		actor.Validate(),
		listingID.Validate(),
		cooperativeID.Validate(),
		kernel.ValidatePositive("quantityKg", quantityKg),
		window.Validate(),
	); err != nil {
		return CreateListingCommand{}, err
	}
	return CreateListingCommand{
		actor:         actor,
		listingID:     listingID,
		cooperativeID: cooperativeID,
		crop:          crop,
		quantityKg:    quantityKg,
		minimumPrice:  minimumPrice,
		window:        window,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c CreateListingCommand) Validate() error {
	return c.guard.Validate(ErrCreateListingCommandIsNotConstructed)
}

func (c CreateListingCommand) Actor() kernel.Actor           { return c.actor }
func (c CreateListingCommand) ListingID() kernel.UUID        { return c.listingID }
func (c CreateListingCommand) CooperativeID() kernel.UUID    { return c.cooperativeID }
func (c CreateListingCommand) Crop() string                  { return c.crop }
func (c CreateListingCommand) QuantityKg() decimal.Decimal   { return c.quantityKg }
func (c CreateListingCommand) MinimumPrice() decimal.Decimal { return c.minimumPrice }
func (c CreateListingCommand) Window() kernel.TimeWindow     { return c.window }
