package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrCancelContractCommandIsNotConstructed = errors.New(
	"CancelContractCommand must be created via NewCancelContractCommand constructor",
)

type CancelContractCommand struct {
	actor      kernel.Actor
	contractID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCancelContractCommand(actor kernel.Actor, contractID kernel.UUID) (CancelContractCommand, error) {
	if err := errors.Join(actor.Validate(), contractID.Validate()); err != nil {
		return CancelContractCommand{}, err
	}
	return CancelContractCommand{actor: actor, contractID: contractID, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelContractCommand) Validate() error {
	return c.guard.Validate(ErrCancelContractCommandIsNotConstructed)
}

func (c CancelContractCommand) Actor() kernel.Actor     { return c.actor }
func (c CancelContractCommand) ContractID() kernel.UUID { return c.contractID }
