package commands

import (
	"context"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/core/ports"
	"agritrade/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// requestCooperative returns the cooperative owning the request's contract, the party
// allowed to manage it. Requests without a contract have no owning party.
func requestCooperative(ctx context.Context, uow UoW, r *transport.Request) ([]kernel.UUID, error) {
	contractID := r.ContractID()
	if contractID == nil {
		return nil, nil
	}
	c, err := uow.ContractRepository().Get(ctx, *contractID)
	if err != nil {
		return nil, err
	}
	return []kernel.UUID{c.CooperativeID()}, nil
}

// actingTransporter resolves whose truck the actor speaks for. Admins act on behalf of
// the current assignee. A request nobody was assigned to cannot be moved by anyone.
func actingTransporter(actor kernel.Actor, r *transport.Request, action string) (kernel.UUID, error) {
	if r.TransporterID() == nil {
		return kernel.UUID{}, errs.NewInvalidTransitionError("transport request", r.Status().String(), action)
	}
	if actor.IsAdmin() {
		return *r.TransporterID(), nil
	}
	if actor.PartyID() == nil {
		return kernel.UUID{}, errs.NewAccessDeniedErrorWithReason(
			actor.Role().String(), ports.ResourceTransport, action, "no transporter party")
	}
	return *actor.PartyID(), nil
}

// committedLoadKg is the transporter's load excluding r, so that reassigning r to the
// same truck does not count it twice.
func committedLoadKg(
	ctx context.Context,
	repo ports.TransportRequestRepository,
	transporterID kernel.UUID,
	r *transport.Request,
) (decimal.Decimal, error) {
	committed, err := repo.CommittedLoadKg(ctx, transporterID)
	if err != nil {
		return decimal.Zero, err
	}
	if r.IsAssignedTo(transporterID) && r.Status().CountsTowardsCapacity() {
		committed = committed.Sub(r.LoadKg())
	}
	return committed, nil
}

// progressTransport loads the request, lets the assignee move it forward and saves it.
func progressTransport(
	ctx context.Context,
	uowFactory UoWFactory,
	authorizer ports.Authorizer,
	actor kernel.Actor,
	requestID kernel.UUID,
	action string,
	move func(r *transport.Request, transporterID kernel.UUID) error,
) error {
	if err := authorizer.Authorize(actor, ports.ResourceTransport, action); err != nil {
		return err
	}

	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	requests := uow.TransportRequestRepository()
	r, err := requests.Get(ctx, requestID)
	if err != nil {
		return err
	}
	transporterID, err := actingTransporter(actor, r, action)
	if err != nil {
		return err
	}
	from := r.Status()
	if err = move(r, transporterID); err != nil {
		return err
	}
	if err = requests.Update(ctx, r); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "transport."+action, actor, r.ID(), map[string]any{
		"from": from.String(),
		"to":   r.Status().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
