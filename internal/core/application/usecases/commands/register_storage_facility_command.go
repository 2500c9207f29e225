package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrRegisterStorageFacilityCommandIsNotConstructed = errors.New(
	"RegisterStorageFacilityCommand must be created via NewRegisterStorageFacilityCommand constructor",
)

type RegisterStorageFacilityCommand struct {
	actor      kernel.Actor
	facilityID kernel.UUID
	name       string
	location   string
	capacityKg decimal.Decimal

	guard guard.ConstructorGuard
}

func NewRegisterStorageFacilityCommand(
	actor kernel.Actor,
	facilityID kernel.UUID,
	name, location string,
	capacityKg decimal.Decimal,
) (RegisterStorageFacilityCommand, error) {
	if err := errors.Join(
		actor.Validate(),
		facilityID.Validate(),
		kernel.ValidateRequiredText("name", name),
		kernel.ValidatePositive("capacityKg", capacityKg),
	); err != nil {
		return RegisterStorageFacilityCommand{}, err
	}
	return RegisterStorageFacilityCommand{
		actor:      actor,
		facilityID: facilityID,
		name:       name,
		location:   location,
		capacityKg: capacityKg,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterStorageFacilityCommand) Validate() error {
	return c.guard.Validate(ErrRegisterStorageFacilityCommandIsNotConstructed)
}

func (c RegisterStorageFacilityCommand) Actor() kernel.Actor         { return c.actor }
func (c RegisterStorageFacilityCommand) FacilityID() kernel.UUID     { return c.facilityID }
func (c RegisterStorageFacilityCommand) Name() string                { return c.name }
func (c RegisterStorageFacilityCommand) Location() string            { return c.location }
func (c RegisterStorageFacilityCommand) CapacityKg() decimal.Decimal { return c.capacityKg }
