package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrRespondToOrderCommandIsNotConstructed = errors.New(
	"RespondToOrderCommand must be created via NewRespondToOrderCommand constructor",
)

type RespondToOrderCommand struct {
	actor    kernel.Actor
	orderID  kernel.UUID
	accepted bool

	guard guard.ConstructorGuard
}

func NewRespondToOrderCommand(actor kernel.Actor, orderID kernel.UUID, accepted bool) (RespondToOrderCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return RespondToOrderCommand{}, err
	}
	return RespondToOrderCommand{
		actor:    actor,
		orderID:  orderID,
		accepted: accepted,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RespondToOrderCommand) Validate() error {
	return c.guard.Validate(ErrRespondToOrderCommandIsNotConstructed)
}

func (c RespondToOrderCommand) Actor() kernel.Actor  { return c.actor }
func (c RespondToOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c RespondToOrderCommand) Accepted() bool       { return c.accepted }
