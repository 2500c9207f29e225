package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrInitiateEscrowCommandIsNotConstructed = errors.New(
	"InitiateEscrowCommand must be created via NewInitiateEscrowCommand constructor",
)

type InitiateEscrowCommand struct {
	actor      kernel.Actor
	entryID    kernel.UUID
	contractID kernel.UUID

	guard guard.ConstructorGuard
}

func NewInitiateEscrowCommand(actor kernel.Actor, entryID, contractID kernel.UUID) (InitiateEscrowCommand, error) {
	if err := errors.Join(actor.Validate(), entryID.Validate(), contractID.Validate()); err != nil {
		return InitiateEscrowCommand{}, err
	}
	return InitiateEscrowCommand{
		actor:      actor,
		entryID:    entryID,
		contractID: contractID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c InitiateEscrowCommand) Validate() error {
	return c.guard.Validate(ErrInitiateEscrowCommandIsNotConstructed)
}

func (c InitiateEscrowCommand) Actor() kernel.Actor     { return c.actor }
func (c InitiateEscrowCommand) EntryID() kernel.UUID    { return c.entryID }
func (c InitiateEscrowCommand) ContractID() kernel.UUID { return c.contractID }
