package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

type ConfirmDeliveryCommand struct {
	actor      kernel.Actor
	contractID kernel.UUID

	guard guard.ConstructorGuard
}

func NewConfirmDeliveryCommand(actor kernel.Actor, contractID kernel.UUID) (ConfirmDeliveryCommand, error) {
	if err := errors.Join(actor.Validate(), contractID.Validate()); err != nil {
		return ConfirmDeliveryCommand{}, err
	}
	return ConfirmDeliveryCommand{actor: actor, contractID: contractID, guard: guard.NewConstructorGuard()}, nil
}

func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

func (c ConfirmDeliveryCommand) Actor() kernel.Actor     { return c.actor }
func (c ConfirmDeliveryCommand) ContractID() kernel.UUID { return c.contractID }
