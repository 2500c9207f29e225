package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrConfirmPayoutCommandIsNotConstructed = errors.New(
	"ConfirmPayoutCommand must be created via NewConfirmPayoutCommand constructor",
)

type ConfirmPayoutCommand struct {
	actor                kernel.Actor
	balanceID            kernel.UUID
	transactionReference string

	guard guard.ConstructorGuard
}

func NewConfirmPayoutCommand(actor kernel.Actor, balanceID kernel.UUID, transactionReference string) (ConfirmPayoutCommand, error) {
	if err := errors.Join(
		actor.Validate(),
		balanceID.Validate(),
		kernel.ValidateRequiredText("transactionReference", transactionReference),
	); err != nil {
		return ConfirmPayoutCommand{}, err
	}
	return ConfirmPayoutCommand{
		actor:                actor,
		balanceID:            balanceID,
		transactionReference: transactionReference,
		guard:                guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmPayoutCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPayoutCommandIsNotConstructed)
}

func (c ConfirmPayoutCommand) Actor() kernel.Actor          { return c.actor }
func (c ConfirmPayoutCommand) BalanceID() kernel.UUID       { return c.balanceID }
func (c ConfirmPayoutCommand) TransactionReference() string { return c.transactionReference }
