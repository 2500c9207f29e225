package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrReviewHarvestDeclarationCommandIsNotConstructed = errors.New(
	"ReviewHarvestDeclarationCommand must be created via NewReviewHarvestDeclarationCommand constructor",
)

type ReviewHarvestDeclarationCommand struct {
	actor         kernel.Actor
	declarationID kernel.UUID
	approved      bool
	measuredKg    decimal.Decimal
	note          string

	guard guard.ConstructorGuard
}

// NewReviewHarvestDeclarationCommand approves (optionally with the measured weight) or rejects a declaration.
func NewReviewHarvestDeclarationCommand(
	actor kernel.Actor,
	declarationID kernel.UUID,
	approved bool,
	measuredKg decimal.Decimal,
	note string,
) (ReviewHarvestDeclarationCommand, error) {
	if err := errors.Join(
		actor.Validate(),
		declarationID.Validate(),
		kernel.ValidateNonNegative("measuredKg", measuredKg),
	); err != nil {
		return ReviewHarvestDeclarationCommand{}, err
	}
	return ReviewHarvestDeclarationCommand{
		actor:         actor,
		declarationID: declarationID,
		approved:      approved,
		measuredKg:    measuredKg,
		note:          note,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c ReviewHarvestDeclarationCommand) Validate() error {
	return c.guard.Validate(ErrReviewHarvestDeclarationCommandIsNotConstructed)
}

func (c ReviewHarvestDeclarationCommand) Actor() kernel.Actor         { return c.actor }
func (c ReviewHarvestDeclarationCommand) DeclarationID() kernel.UUID  { return c.declarationID }
func (c ReviewHarvestDeclarationCommand) Approved() bool              { return c.approved }
func (c ReviewHarvestDeclarationCommand) MeasuredKg() decimal.Decimal { return c.measuredKg }
func (c ReviewHarvestDeclarationCommand) Note() string                { return c.note }
