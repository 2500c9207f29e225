package commands

import (
	"context"
	"errors"

	"agritrade/internal/core/ports"
	"agritrade/internal/pkg/errs"
)

// CancelOrderCommandHandler withdraws a buyer's order as long as no contract was formed from it.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewCancelOrderCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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
	if err = ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceOrder, ports.ActionCancel, o.BuyerID()); err != nil {
		return err
	}

	_, err = uow.ContractRepository().GetByOrderID(ctx, o.ID())
	switch {
	case err == nil:
		return ErrContractExists
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	if err = o.Cancel(); err != nil {
		return err
	}
	if err = orders.Update(ctx, o); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "order.cancel", cmd.Actor(), o.ID(), nil); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
