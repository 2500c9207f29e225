package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrAcceptJobCommandIsNotConstructed = errors.New(
	"AcceptJobCommand must be created via NewAcceptJobCommand constructor",
)

type AcceptJobCommand struct {
	actor       kernel.Actor
	requestID   kernel.UUID
	truck       string
	driverPhone string

	guard guard.ConstructorGuard
}

func NewAcceptJobCommand(actor kernel.Actor, requestID kernel.UUID, truck, driverPhone string) (AcceptJobCommand, error) {
	if err := errors.Join(
		actor.Validate(),
		requestID.Validate(),
		kernel.ValidateRequiredText("truck", truck),
		kernel.ValidateRequiredText("driverPhone", driverPhone),
	); err != nil {
		return AcceptJobCommand{}, err
	}
	return AcceptJobCommand{
		actor:       actor,
		requestID:   requestID,
		truck:       truck,
		driverPhone: driverPhone,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c AcceptJobCommand) Validate() error {
	return c.guard.Validate(ErrAcceptJobCommandIsNotConstructed)
}

func (c AcceptJobCommand) Actor() kernel.Actor    { return c.actor }
func (c AcceptJobCommand) RequestID() kernel.UUID { return c.requestID }
func (c AcceptJobCommand) Truck() string          { return c.truck }
func (c AcceptJobCommand) DriverPhone() string    { return c.driverPhone }
