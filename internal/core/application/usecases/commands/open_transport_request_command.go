package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrOpenTransportRequestCommandIsNotConstructed = errors.New(
	"OpenTransportRequestCommand must be created via NewOpenTransportRequestCommand constructor",
)

// TransportRequestDetails describes the haul. A nil PickupWindow and a zero Price
// take the defaults.
type TransportRequestDetails struct {
	RequestID    kernel.UUID
	ContractID   kernel.UUID
	Origin       string
	LoadKg       decimal.Decimal
	PickupWindow *kernel.TimeWindow
	Price        decimal.Decimal
}

type OpenTransportRequestCommand struct {
	actor   kernel.Actor
	details TransportRequestDetails

	guard guard.ConstructorGuard
}

func NewOpenTransportRequestCommand(actor kernel.Actor, d TransportRequestDetails) (OpenTransportRequestCommand, error) {
	var windowErr error
	if d.PickupWindow != nil {
		windowErr = d.PickupWindow.Validate()
	}
	if err := errors.Join(
		actor.Validate(),
		d.RequestID.Validate(),
		d.ContractID.Validate(),
		kernel.ValidateRequiredText("origin", d.Origin),
		kernel.ValidatePositive("loadKg", d.LoadKg),
		kernel.ValidateNonNegative("price", d.Price),
		windowErr,
	); err != nil {
		return OpenTransportRequestCommand{}, err
	}
	return OpenTransportRequestCommand{actor: actor, details: d, guard: guard.NewConstructorGuard()}, nil
}

func (c OpenTransportRequestCommand) Validate() error {
	return c.guard.Validate(ErrOpenTransportRequestCommandIsNotConstructed)
}

func (c OpenTransportRequestCommand) Actor() kernel.Actor              { return c.actor }
func (c OpenTransportRequestCommand) RequestID() kernel.UUID           { return c.details.RequestID }
func (c OpenTransportRequestCommand) ContractID() kernel.UUID          { return c.details.ContractID }
func (c OpenTransportRequestCommand) Origin() string                   { return c.details.Origin }
func (c OpenTransportRequestCommand) LoadKg() decimal.Decimal          { return c.details.LoadKg }
func (c OpenTransportRequestCommand) PickupWindow() *kernel.TimeWindow { return c.details.PickupWindow }
func (c OpenTransportRequestCommand) Price() decimal.Decimal           { return c.details.Price }
