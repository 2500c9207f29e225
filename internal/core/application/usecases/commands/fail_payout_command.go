package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrFailPayoutCommandIsNotConstructed = errors.New(
	"FailPayoutCommand must be created via NewFailPayoutCommand constructor",
)

type FailPayoutCommand struct {
	actor     kernel.Actor
	balanceID kernel.UUID
	reason    string

	guard guard.ConstructorGuard
}

func NewFailPayoutCommand(actor kernel.Actor, balanceID kernel.UUID, reason string) (FailPayoutCommand, error) {
	if err := errors.Join(
		actor.Validate(),
		balanceID.Validate(),
		kernel.ValidateRequiredText("reason", reason),
	); err != nil {
		return FailPayoutCommand{}, err
	}
	return FailPayoutCommand{actor: actor, balanceID: balanceID, reason: reason, guard: guard.NewConstructorGuard()}, nil
}

func (c FailPayoutCommand) Validate() error {
	return c.guard.Validate(ErrFailPayoutCommandIsNotConstructed)
}

func (c FailPayoutCommand) Actor() kernel.Actor    { return c.actor }
func (c FailPayoutCommand) BalanceID() kernel.UUID { return c.balanceID }
func (c FailPayoutCommand) Reason() string         { return c.reason }
