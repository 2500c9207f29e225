package commands

import (
	"context"

	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/core/domain/services"
	"agritrade/internal/core/ports"
)

// ConfirmDeliveryCommandHandler is the buyer confirming receipt. Every live transport
// request of the contract must be delivered; it is completed and the contract fulfilled.
// A contract without transport is fulfilled directly.
type ConfirmDeliveryCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
	ledger     services.InventoryLedger
}

func NewConfirmDeliveryCommandHandler(
	uowFactory UoWFactory,
	authorizer ports.Authorizer,
	ledger services.InventoryLedger,
) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{uowFactory: uowFactory, authorizer: authorizer, ledger: ledger}
}

func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) error {
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

	c, err := uow.ContractRepository().Get(ctx, cmd.ContractID())
	if err != nil {
		return err
	}
	if err = ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceContract, ports.ActionConfirm, c.BuyerID()); err != nil {
		return err
	}

	transports := uow.TransportRequestRepository()
	requests, err := transports.GetByContractID(ctx, c.ID())
	if err != nil {
		return err
	}
	completed := 0
	for _, r := range requests {
		if r.Status() == transport.Cancelled {
			continue
		}
		if err = r.Complete(); err != nil {
			return err
		}
		if err = transports.Update(ctx, r); err != nil {
			return err
		}
		completed++
	}

	if err = fulfillContract(ctx, uow, h.ledger, c); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "contract.confirm_delivery", cmd.Actor(), c.ID(), map[string]any{
		"transportsCompleted": completed,
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
