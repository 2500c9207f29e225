package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/pkg/guard"
)

var ErrSettleFarmerPaymentsCommandIsNotConstructed = errors.New(
	"SettleFarmerPaymentsCommand must be created via NewSettleFarmerPaymentsCommand constructor",
)

type SettleFarmerPaymentsCommand struct {
	actor      kernel.Actor
	contractID kernel.UUID
	method     settlement.PaymentMethod

	guard guard.ConstructorGuard
}

func NewSettleFarmerPaymentsCommand(
	actor kernel.Actor,
	contractID kernel.UUID,
	method settlement.PaymentMethod,
) (SettleFarmerPaymentsCommand, error) {
	if err := errors.Join(actor.Validate(), contractID.Validate(), method.Validate()); err != nil {
		return SettleFarmerPaymentsCommand{}, err
	}
	return SettleFarmerPaymentsCommand{
		actor:      actor,
		contractID: contractID,
		method:     method,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c SettleFarmerPaymentsCommand) Validate() error {
	return c.guard.Validate(ErrSettleFarmerPaymentsCommandIsNotConstructed)
}

func (c SettleFarmerPaymentsCommand) Actor() kernel.Actor                     { return c.actor }
func (c SettleFarmerPaymentsCommand) ContractID() kernel.UUID                 { return c.contractID }
func (c SettleFarmerPaymentsCommand) PaymentMethod() settlement.PaymentMethod { return c.method }
