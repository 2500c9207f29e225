package commands

import (
	"context"

	"agritrade/internal/core/domain/model/storage"
	"agritrade/internal/core/ports"
)

type RegisterStorageFacilityCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewRegisterStorageFacilityCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) RegisterStorageFacilityCommandHandler {
	return RegisterStorageFacilityCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h RegisterStorageFacilityCommandHandler) Handle(ctx context.Context, cmd RegisterStorageFacilityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := h.authorizer.Authorize(cmd.Actor(), ports.ResourceFacility, ports.ActionRegister); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	f, err := storage.NewFacility(cmd.FacilityID(), cmd.Name(), cmd.Location(), cmd.CapacityKg())
	if err != nil {
		return err
	}
	if err = uow.StorageFacilityRepository().Add(ctx, f); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "facility.register", cmd.Actor(), f.ID(), map[string]any{
		"capacityKg": f.CapacityKg().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
