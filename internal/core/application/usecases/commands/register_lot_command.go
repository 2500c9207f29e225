package commands

import (
	"errors"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrRegisterLotCommandIsNotConstructed = errors.New(
	"RegisterLotCommand must be created via NewRegisterLotCommand constructor",
)

type RegisterLotCommand struct {
	actor               kernel.Actor
	lotID               kernel.UUID
	cooperativeID       kernel.UUID
	farmerID            kernel.UUID
	crop                string
	quantityKg          decimal.Decimal
	qualityGrade        string
	expectedHarvestDate time.Time

	guard guard.ConstructorGuard
}

func NewRegisterLotCommand(
	actor kernel.Actor,
	lotID, cooperativeID, farmerID kernel.UUID,
	crop string,
	quantityKg decimal.Decimal,
	qualityGrade string,
	expectedHarvestDate time.Time,
) (RegisterLotCommand, error) {
	if err := errors.Join(
		actor.Validate(),
		lotID.Validate(),
		cooperativeID.Validate(),
		farmerID.Validate(),
		kernel.ValidateRequiredText("crop", crop),
		kernel.ValidatePositive("quantityKg", quantityKg),
	); err != nil {
		return RegisterLotCommand{}, err
	}
	return RegisterLotCommand{
		actor:               actor,
		lotID:               lotID,
		cooperativeID:       cooperativeID,
		farmerID:            farmerID,
		crop:                crop,
		quantityKg:          quantityKg,
		qualityGrade:        qualityGrade,
		expectedHarvestDate: expectedHarvestDate,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterLotCommand) Validate() error {
	return c.guard.Validate(ErrRegisterLotCommandIsNotConstructed)
}

func (c RegisterLotCommand) Actor() kernel.Actor            { return c.actor }
func (c RegisterLotCommand) LotID() kernel.UUID             { return c.lotID }
func (c RegisterLotCommand) CooperativeID() kernel.UUID     { return c.cooperativeID }
func (c RegisterLotCommand) FarmerID() kernel.UUID          { return c.farmerID }
func (c RegisterLotCommand) Crop() string                   { return c.crop }
func (c RegisterLotCommand) QuantityKg() decimal.Decimal    { return c.quantityKg }
func (c RegisterLotCommand) QualityGrade() string           { return c.qualityGrade }
func (c RegisterLotCommand) ExpectedHarvestDate() time.Time { return c.expectedHarvestDate }
