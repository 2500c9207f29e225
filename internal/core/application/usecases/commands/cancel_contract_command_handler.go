package commands

import (
	"context"

	"agritrade/internal/core/domain/services"
	"agritrade/internal/core/ports"
)

// CancelContractCommandHandler releases the contract's lots and storage and cancels
// transport that has not collected the goods yet.
type CancelContractCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
	ledger     services.InventoryLedger
}

func NewCancelContractCommandHandler(
	uowFactory UoWFactory,
	authorizer ports.Authorizer,
	ledger services.InventoryLedger,
) CancelContractCommandHandler {
	return CancelContractCommandHandler{uowFactory: uowFactory, authorizer: authorizer, ledger: ledger}
}

func (h CancelContractCommandHandler) Handle(ctx context.Context, cmd CancelContractCommand) error {
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
	if err = ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceContract, ports.ActionCancel,
		c.BuyerID(), c.CooperativeID()); err != nil {
		return err
	}

	from := c.Status()
	if err = cancelContract(ctx, uow, h.ledger, c); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "contract.cancel", cmd.Actor(), c.ID(), map[string]any{
		"from": from.String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
