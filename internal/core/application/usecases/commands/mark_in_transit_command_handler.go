package commands

import (
	"context"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/core/ports"
)

type MarkInTransitCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewMarkInTransitCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) MarkInTransitCommandHandler {
	return MarkInTransitCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h MarkInTransitCommandHandler) Handle(ctx context.Context, cmd MarkInTransitCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return progressTransport(ctx, h.uowFactory, h.authorizer, cmd.Actor(), cmd.RequestID(), ports.ActionTransit,
		func(r *transport.Request, transporterID kernel.UUID) error {
			return r.MarkInTransit(transporterID)
		})
}
