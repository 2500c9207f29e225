package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrResolveDisputeCommandIsNotConstructed = errors.New(
	"ResolveDisputeCommand must be created via NewResolveDisputeCommand constructor",
)

type ResolveDisputeCommand struct {
	actor      kernel.Actor
	contractID kernel.UUID

	guard guard.ConstructorGuard
}

func NewResolveDisputeCommand(actor kernel.Actor, contractID kernel.UUID) (ResolveDisputeCommand, error) {
	if err := errors.Join(actor.Validate(), contractID.Validate()); err != nil {
		return ResolveDisputeCommand{}, err
	}
	return ResolveDisputeCommand{actor: actor, contractID: contractID, guard: guard.NewConstructorGuard()}, nil
}

func (c ResolveDisputeCommand) Validate() error {
	return c.guard.Validate(ErrResolveDisputeCommandIsNotConstructed)
}

func (c ResolveDisputeCommand) Actor() kernel.Actor     { return c.actor }
func (c ResolveDisputeCommand) ContractID() kernel.UUID { return c.contractID }
