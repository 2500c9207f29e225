package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrConfirmPickupCommandIsNotConstructed = errors.New(
	"ConfirmPickupCommand must be created via NewConfirmPickupCommand constructor",
)

type ConfirmPickupCommand struct {
	actor     kernel.Actor
	requestID kernel.UUID

	guard guard.ConstructorGuard
}

func NewConfirmPickupCommand(actor kernel.Actor, requestID kernel.UUID) (ConfirmPickupCommand, error) {
	if err := errors.Join(actor.Validate(), requestID.Validate()); err != nil {
		return ConfirmPickupCommand{}, err
	}
	return ConfirmPickupCommand{actor: actor, requestID: requestID, guard: guard.NewConstructorGuard()}, nil
}

func (c ConfirmPickupCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPickupCommandIsNotConstructed)
}

func (c ConfirmPickupCommand) Actor() kernel.Actor    { return c.actor }
func (c ConfirmPickupCommand) RequestID() kernel.UUID { return c.requestID }
