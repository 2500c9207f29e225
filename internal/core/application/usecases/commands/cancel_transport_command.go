package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrCancelTransportCommandIsNotConstructed = errors.New(
	"CancelTransportCommand must be created via NewCancelTransportCommand constructor",
)

type CancelTransportCommand struct {
	actor     kernel.Actor
	requestID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCancelTransportCommand(actor kernel.Actor, requestID kernel.UUID) (CancelTransportCommand, error) {
	if err := errors.Join(actor.Validate(), requestID.Validate()); err != nil {
		return CancelTransportCommand{}, err
	}
	return CancelTransportCommand{actor: actor, requestID: requestID, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelTransportCommand) Validate() error {
	return c.guard.Validate(ErrCancelTransportCommandIsNotConstructed)
}

func (c CancelTransportCommand) Actor() kernel.Actor    { return c.actor }
func (c CancelTransportCommand) RequestID() kernel.UUID { return c.requestID }
