package commands

import (
	"context"

	"agritrade/internal/core/ports"
)

// RespondToOrderCommandHandler lets the owning cooperative accept or reject an open order.
// Accepting does not allocate lots.
type RespondToOrderCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewRespondToOrderCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) RespondToOrderCommandHandler {
	return RespondToOrderCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h RespondToOrderCommandHandler) Handle(ctx context.Context, cmd RespondToOrderCommand) error {
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

	orders := uow.OrderRepository()
	o, err := orders.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceOrder, ports.ActionRespond, o.CooperativeID()); err != nil {
		return err
	}
	if err = o.Respond(cmd.Accepted()); err != nil {
		return err
	}
	if err = orders.Update(ctx, o); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "order.respond", cmd.Actor(), o.ID(), map[string]any{
		"accepted": cmd.Accepted(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
