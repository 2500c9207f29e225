package commands

import (
	"context"

	"agritrade/internal/core/ports"
)

type DisputeContractCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewDisputeContractCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) DisputeContractCommandHandler {
	return DisputeContractCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h DisputeContractCommandHandler) Handle(ctx context.Context, cmd DisputeContractCommand) error {
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

	contracts := uow.ContractRepository()
	c, err := contracts.Get(ctx, cmd.ContractID())
	if err != nil {
		return err
	}
	if err = ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceContract, ports.ActionDispute,
		c.BuyerID(), c.CooperativeID()); err != nil {
		return err
	}
	if err = c.Dispute(); err != nil {
		return err
	}
	if err = contracts.Update(ctx, c); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "contract.dispute", cmd.Actor(), c.ID(), nil); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
