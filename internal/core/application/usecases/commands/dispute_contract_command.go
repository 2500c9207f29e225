package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrDisputeContractCommandIsNotConstructed = errors.New(
	"DisputeContractCommand must be created via NewDisputeContractCommand constructor",
)

type DisputeContractCommand struct {
	actor      kernel.Actor
	contractID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDisputeContractCommand(actor kernel.Actor, contractID kernel.UUID) (DisputeContractCommand, error) {
	if err := errors.Join(actor.Validate(), contractID.Validate()); err != nil {
		return DisputeContractCommand{}, err
	}
	return DisputeContractCommand{actor: actor, contractID: contractID, guard: guard.NewConstructorGuard()}, nil
}

func (c DisputeContractCommand) Validate() error {
	return c.guard.Validate(ErrDisputeContractCommandIsNotConstructed)
}

func (c DisputeContractCommand) Actor() kernel.Actor     { return c.actor }
func (c DisputeContractCommand) ContractID() kernel.UUID { return c.contractID }
