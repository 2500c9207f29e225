package commands

import (
	"context"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/core/domain/services"
	"agritrade/internal/core/ports"
)

// committedStatuses are the jobs a transporter has already agreed to run.
var committedStatuses = []transport.Status{transport.Accepted, transport.PickedUp, transport.InTransit}

// AcceptJobCommandHandler lets the assignee take on a job unless it overlaps another
// job it has already accepted.
type AcceptJobCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
	dispatcher services.TransporterDispatcher
}

func NewAcceptJobCommandHandler(
	uowFactory UoWFactory,
	authorizer ports.Authorizer,
	dispatcher services.TransporterDispatcher,
) AcceptJobCommandHandler {
	return AcceptJobCommandHandler{uowFactory: uowFactory, authorizer: authorizer, dispatcher: dispatcher}
}

func (h AcceptJobCommandHandler) Handle(ctx context.Context, cmd AcceptJobCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := h.authorizer.Authorize(cmd.Actor(), ports.ResourceTransport, ports.ActionAccept); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	requests := uow.TransportRequestRepository()
	r, err := requests.Get(ctx, cmd.RequestID())
	if err != nil {
		return err
	}
	transporterID, err := actingTransporter(cmd.Actor(), r, ports.ActionAccept)
	if err != nil {
		return err
	}
	if err = h.checkSchedule(ctx, requests, r, transporterID); err != nil {
		return err
	}
	if err = r.Accept(transporterID, cmd.Truck(), cmd.DriverPhone()); err != nil {
		return err
	}
	if err = requests.Update(ctx, r); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "transport.accept", cmd.Actor(), r.ID(), map[string]any{
		"truck": cmd.Truck(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h AcceptJobCommandHandler) checkSchedule(
	ctx context.Context,
	requests ports.TransportRequestRepository,
	r *transport.Request,
	transporterID kernel.UUID,
) error {
	jobs, err := requests.GetByTransporter(ctx, transporterID, committedStatuses)
	if err != nil {
		return err
	}
	return h.dispatcher.CheckSchedule(r, jobs)
}
