package commands

import (
	"context"

	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/core/ports"
)

// RegisterTransporterCommandHandler adds a truck to the fleet. A transporter may only
// register itself.
type RegisterTransporterCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewRegisterTransporterCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) RegisterTransporterCommandHandler {
	return RegisterTransporterCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h RegisterTransporterCommandHandler) Handle(ctx context.Context, cmd RegisterTransporterCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceTransporter, ports.ActionRegister, cmd.TransporterID()); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	t, err := transport.NewTransporter(cmd.TransporterID(), cmd.Name(), cmd.CapacityKg(), cmd.LicensePlate(), cmd.Phone())
	if err != nil {
		return err
	}
	if err = uow.TransporterRepository().Add(ctx, t); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "transporter.register", cmd.Actor(), t.ID(), map[string]any{
		"capacityKg": t.CapacityKg().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
