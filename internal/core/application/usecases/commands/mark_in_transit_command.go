package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrMarkInTransitCommandIsNotConstructed = errors.New(
	"MarkInTransitCommand must be created via NewMarkInTransitCommand constructor",
)

type MarkInTransitCommand struct {
	actor     kernel.Actor
	requestID kernel.UUID

	guard guard.ConstructorGuard
}

func NewMarkInTransitCommand(actor kernel.Actor, requestID kernel.UUID) (MarkInTransitCommand, error) {
	if err := errors.Join(actor.Validate(), requestID.Validate()); err != nil {
		return MarkInTransitCommand{}, err
	}
	return MarkInTransitCommand{actor: actor, requestID: requestID, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkInTransitCommand) Validate() error {
	return c.guard.Validate(ErrMarkInTransitCommandIsNotConstructed)
}

func (c MarkInTransitCommand) Actor() kernel.Actor    { return c.actor }
func (c MarkInTransitCommand) RequestID() kernel.UUID { return c.requestID }
