package commands

import (
	"context"

	"agritrade/internal/core/ports"
)

// ResolveDisputeCommandHandler is the admin putting a disputed contract back to Active.
type ResolveDisputeCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewResolveDisputeCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) ResolveDisputeCommandHandler {
	return ResolveDisputeCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h ResolveDisputeCommandHandler) Handle(ctx context.Context, cmd ResolveDisputeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := h.authorizer.Authorize(cmd.Actor(), ports.ResourceContract, ports.ActionResolve); err != nil {
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
	if err = c.Resolve(); err != nil {
		return err
	}
	if err = contracts.Update(ctx, c); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "contract.resolve", cmd.Actor(), c.ID(), nil); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
