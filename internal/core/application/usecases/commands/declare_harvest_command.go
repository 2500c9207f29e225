package commands

import (
	"errors"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrDeclareHarvestCommandIsNotConstructed = errors.New(
	"DeclareHarvestCommand must be created via NewDeclareHarvestCommand constructor",
)

type DeclareHarvestCommand struct {
	actor               kernel.Actor
	declarationID       kernel.UUID
	cooperativeID       kernel.UUID
	crop                string
	expectedQuantityKg  decimal.Decimal
	expectedHarvestDate time.Time
	qualityGrade        string

	guard guard.ConstructorGuard
}

// NewDeclareHarvestCommand is issued by a farmer; the declaring farmer is the actor's party.
func NewDeclareHarvestCommand(
	actor kernel.Actor,
	declarationID, cooperativeID kernel.UUID,
	crop string,
	expectedQuantityKg decimal.Decimal,
	expectedHarvestDate time.Time,
	qualityGrade string,
) (DeclareHarvestCommand, error) {
	if err := errors.Join(
		actor.Validate(),
		declarationID.Validate(),
		cooperativeID.Validate(),
	); err != nil {
		return DeclareHarvestCommand{}, err
	}
	return DeclareHarvestCommand{
		actor:               actor,
		declarationID:       declarationID,
		cooperativeID:       cooperativeID,
		crop:                crop,
		expectedQuantityKg:  expectedQuantityKg,
		expectedHarvestDate: expectedHarvestDate,
		qualityGrade:        qualityGrade,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

func (c DeclareHarvestCommand) Validate() error {
	return c.guard.Validate(ErrDeclareHarvestCommandIsNotConstructed)
}

func (c DeclareHarvestCommand) Actor() kernel.Actor                 { return c.actor }
func (c DeclareHarvestCommand) DeclarationID() kernel.UUID          { return c.declarationID }
func (c DeclareHarvestCommand) CooperativeID() kernel.UUID          { return c.cooperativeID }
func (c DeclareHarvestCommand) Crop() string                        { return c.crop }
func (c DeclareHarvestCommand) ExpectedQuantityKg() decimal.Decimal { return c.expectedQuantityKg }
func (c DeclareHarvestCommand) ExpectedHarvestDate() time.Time      { return c.expectedHarvestDate }
func (c DeclareHarvestCommand) QualityGrade() string                { return c.qualityGrade }
