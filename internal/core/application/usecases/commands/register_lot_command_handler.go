package commands

import (
	"context"

	"agritrade/internal/core/domain/model/lot"
	"agritrade/internal/core/ports"
)

// RegisterLotCommandHandler records a lot weighed in by the cooperative. Such lots are verified.
type RegisterLotCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewRegisterLotCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) RegisterLotCommandHandler {
	return RegisterLotCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h RegisterLotCommandHandler) Handle(ctx context.Context, cmd RegisterLotCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceLot, ports.ActionCreate, cmd.CooperativeID()); err != nil {
		return err
	}

	l, err := lot.NewLot(cmd.LotID(), cmd.CooperativeID(), cmd.FarmerID(), cmd.Crop(),
		cmd.QuantityKg(), cmd.QualityGrade(), cmd.ExpectedHarvestDate(), true)
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

	if err = uow.LotRepository().Add(ctx, l); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "lot.register", cmd.Actor(), l.ID(), map[string]any{
		"crop":       l.Crop(),
		"quantityKg": l.QuantityKg().String(),
		"farmerId":   l.FarmerID().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
