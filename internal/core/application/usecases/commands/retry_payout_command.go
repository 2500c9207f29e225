package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrRetryPayoutCommandIsNotConstructed = errors.New(
	"RetryPayoutCommand must be created via NewRetryPayoutCommand constructor",
)

type RetryPayoutCommand struct {
	actor     kernel.Actor
	balanceID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRetryPayoutCommand(actor kernel.Actor, balanceID kernel.UUID) (RetryPayoutCommand, error) {
	if err := errors.Join(actor.Validate(), balanceID.Validate()); err != nil {
		return RetryPayoutCommand{}, err
	}
	return RetryPayoutCommand{actor: actor, balanceID: balanceID, guard: guard.NewConstructorGuard()}, nil
}

func (c RetryPayoutCommand) Validate() error {
	return c.guard.Validate(ErrRetryPayoutCommandIsNotConstructed)
}

func (c RetryPayoutCommand) Actor() kernel.Actor    { return c.actor }
func (c RetryPayoutCommand) BalanceID() kernel.UUID { return c.balanceID }
