package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrRegisterTransporterCommandIsNotConstructed = errors.New(
	"RegisterTransporterCommand must be created via NewRegisterTransporterCommand constructor",
)

type RegisterTransporterCommand struct {
	actor         kernel.Actor
	transporterID kernel.UUID
	name          string
	capacityKg    decimal.Decimal
	licensePlate  string
	phone         string

	guard guard.ConstructorGuard
}

func NewRegisterTransporterCommand(
	actor kernel.Actor,
	transporterID kernel.UUID,
	name string,
	capacityKg decimal.Decimal,
	licensePlate, phone string,
) (RegisterTransporterCommand, error) {
	if err := errors.Join(
		actor.Validate(),
		transporterID.Validate(),
		kernel.ValidateRequiredText("name", name),
		kernel.ValidatePositive("capacityKg", capacityKg),
	); err != nil {
		return RegisterTransporterCommand{}, err
	}
	return RegisterTransporterCommand{
		actor:         actor,
		transporterID: transporterID,
		name:          name,
		capacityKg:    capacityKg,
		licensePlate:  licensePlate,
		phone:         phone,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterTransporterCommand) Validate() error {
	return c.guard.Validate(ErrRegisterTransporterCommandIsNotConstructed)
}

func (c RegisterTransporterCommand) Actor() kernel.Actor         { return c.actor }
func (c RegisterTransporterCommand) TransporterID() kernel.UUID  { return c.transporterID }
func (c RegisterTransporterCommand) Name() string                { return c.name }
func (c RegisterTransporterCommand) CapacityKg() decimal.Decimal { return c.capacityKg }
func (c RegisterTransporterCommand) LicensePlate() string        { return c.licensePlate }
func (c RegisterTransporterCommand) Phone() string               { return c.phone }
