package commands

import (
	"context"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/core/ports"
)

type ConfirmPickupCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewConfirmPickupCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) ConfirmPickupCommandHandler {
	return ConfirmPickupCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h ConfirmPickupCommandHandler) Handle(ctx context.Context, cmd ConfirmPickupCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return progressTransport(ctx, h.uowFactory, h.authorizer, cmd.Actor(), cmd.RequestID(), ports.ActionPickUp,
		func(r *transport.Request, transporterID kernel.UUID) error {
			return r.PickUp(transporterID, time.Now())
		})
}
