package commands

import (
	"context"

	"agritrade/internal/core/ports"
)

// CancelTransportCommandHandler withdraws a request whose goods have not been collected.
type CancelTransportCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewCancelTransportCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) CancelTransportCommandHandler {
	return CancelTransportCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h CancelTransportCommandHandler) Handle(ctx context.Context, cmd CancelTransportCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	requests := uow.TransportRequestRepository()
	r, err := requests.Get(ctx, cmd.RequestID())
	if err != nil {
		return err
	}
	parties, err := requestCooperative(ctx, uow, r)
	if err != nil {
		return err
	}
	if err = ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceTransport, ports.ActionCancel, parties...); err != nil {
		return err
	}
	from := r.Status()
	if err = r.Cancel(); err != nil {
		return err
	}
	if err = requests.Update(ctx, r); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "transport.cancel", cmd.Actor(), r.ID(), map[string]any{
		"from": from.String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
