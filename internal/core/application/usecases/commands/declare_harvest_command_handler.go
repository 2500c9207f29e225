package commands

import (
	"context"

	"agritrade/internal/core/domain/model/lot"
	"agritrade/internal/core/ports"
	"agritrade/internal/pkg/errs"
)

type DeclareHarvestCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewDeclareHarvestCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) DeclareHarvestCommandHandler {
	return DeclareHarvestCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h DeclareHarvestCommandHandler) Handle(ctx context.Context, cmd DeclareHarvestCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := h.authorizer.Authorize(cmd.Actor(), ports.ResourceHarvest, ports.ActionCreate); err != nil {
		return err
	}
	farmerID := cmd.Actor().PartyID()
	if farmerID == nil {
		return errs.NewAccessDeniedErrorWithReason(cmd.Actor().Role().String(),
			ports.ResourceHarvest, ports.ActionCreate, "declaration needs a farmer")
	}

	d, err := lot.NewHarvestDeclaration(cmd.DeclarationID(), *farmerID, cmd.CooperativeID(), cmd.Crop(),
		cmd.ExpectedQuantityKg(), cmd.ExpectedHarvestDate(), cmd.QualityGrade())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.HarvestDeclarationRepository().Add(ctx, d); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "harvest.declare", cmd.Actor(), d.ID(), map[string]any{
		"crop":               d.Crop(),
		"expectedQuantityKg": d.ExpectedQuantityKg().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
