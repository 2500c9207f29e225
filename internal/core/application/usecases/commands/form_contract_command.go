package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrFormContractCommandIsNotConstructed = errors.New(
	"FormContractCommand must be created via NewFormContractCommand constructor",
)

type FormContractCommand struct {
	actor       kernel.Actor
	contractID  kernel.UUID
	orderID     kernel.UUID
	lotIDs      []kernel.UUID
	agreedPrice decimal.Decimal

	guard guard.ConstructorGuard
}

// NewFormContractCommand binds orderID to lotIDs. A zero agreedPrice means the order's price offer.
func NewFormContractCommand(
	actor kernel.Actor,
	contractID, orderID kernel.UUID,
	lotIDs []kernel.UUID,
	agreedPrice decimal.Decimal,
) (FormContractCommand, error) {
	lotErrs := make([]error, 0, len(lotIDs))
	for _, id := range lotIDs {
		lotErrs = append(lotErrs, id.Validate())
	}
	if len(lotIDs) == 0 {
		lotErrs = append(lotErrs, errs.NewValueIsRequiredError("lotIds"))
	}

	if err := errors.Join(
		actor.Validate(),
		contractID.Validate(),
		orderID.Validate(),
		errors.Join(lotErrs...),
		kernel.ValidateNonNegative("agreedPrice", agreedPrice),
	); err != nil {
		return FormContractCommand{}, err
	}

	ids := make([]kernel.UUID, len(lotIDs))
	copy(ids, lotIDs)
	return FormContractCommand{
		actor:       actor,
		contractID:  contractID,
		orderID:     orderID,
		lotIDs:      ids,
		agreedPrice: agreedPrice,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c FormContractCommand) Validate() error {
	return c.guard.Validate(ErrFormContractCommandIsNotConstructed)
}

func (c FormContractCommand) Actor() kernel.Actor          { return c.actor }
func (c FormContractCommand) ContractID() kernel.UUID      { return c.contractID }
func (c FormContractCommand) OrderID() kernel.UUID         { return c.orderID }
func (c FormContractCommand) AgreedPrice() decimal.Decimal { return c.agreedPrice }

func (c FormContractCommand) LotIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(c.lotIDs))
	copy(ids, c.lotIDs)
	return ids
}
