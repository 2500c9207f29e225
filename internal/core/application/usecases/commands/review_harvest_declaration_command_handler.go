package commands

import (
	"context"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/ports"
)

type ReviewHarvestDeclarationCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewReviewHarvestDeclarationCommandHandler(
	uowFactory UoWFactory,
	authorizer ports.Authorizer,
) ReviewHarvestDeclarationCommandHandler {
	return ReviewHarvestDeclarationCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

// Handle returns the ID of the lot created on approval, or nil on rejection.
func (h ReviewHarvestDeclarationCommandHandler) Handle(
	ctx context.Context,
	cmd ReviewHarvestDeclarationCommand,
) (*kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	declarations := uow.HarvestDeclarationRepository()
	d, err := declarations.Get(ctx, cmd.DeclarationID())
	if err != nil {
		return nil, err
	}
	if err = ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceHarvest, ports.ActionReview, d.CooperativeID()); err != nil {
		return nil, err
	}

	var lotID *kernel.UUID
	if cmd.Approved() {
		l, approveErr := d.Approve(cmd.MeasuredKg())
		if approveErr != nil {
			return nil, approveErr
		}
		if err = uow.LotRepository().Add(ctx, l); err != nil {
			return nil, err
		}
		id := l.ID()
		lotID = &id
	} else if err = d.Reject(cmd.Note()); err != nil {
		return nil, err
	}

	if err = declarations.Update(ctx, d); err != nil {
		return nil, err
	}
	if err = writeAudit(ctx, uow, "harvest.review", cmd.Actor(), d.ID(), map[string]any{
		"approved": cmd.Approved(),
		"note":     cmd.Note(),
	}); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return lotID, nil
}
