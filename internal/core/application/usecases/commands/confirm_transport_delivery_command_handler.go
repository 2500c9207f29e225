package commands

import (
	"context"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/core/ports"
)

// ConfirmTransportDeliveryCommandHandler records the drop-off. The contract stays open
// until the buyer confirms receipt.
type ConfirmTransportDeliveryCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewConfirmTransportDeliveryCommandHandler(
	uowFactory UoWFactory,
	authorizer ports.Authorizer,
) ConfirmTransportDeliveryCommandHandler {
	return ConfirmTransportDeliveryCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h ConfirmTransportDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmTransportDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return progressTransport(ctx, h.uowFactory, h.authorizer, cmd.Actor(), cmd.RequestID(), ports.ActionDeliver,
		func(r *transport.Request, transporterID kernel.UUID) error {
			return r.Deliver(transporterID, cmd.Notes(), cmd.ProofURL(), time.Now())
		})
}
