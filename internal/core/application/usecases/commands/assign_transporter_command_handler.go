package commands

import (
	"context"
	"time"

	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/core/domain/services"
	"agritrade/internal/core/ports"
)

// AssignTransporterCommandHandler gives a request to a named transporter or dispatches it
// to the tightest fitting active one. Capacity counts every job the truck already holds.
type AssignTransporterCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
	dispatcher services.TransporterDispatcher
}

func NewAssignTransporterCommandHandler(
	uowFactory UoWFactory,
	authorizer ports.Authorizer,
	dispatcher services.TransporterDispatcher,
) AssignTransporterCommandHandler {
	return AssignTransporterCommandHandler{uowFactory: uowFactory, authorizer: authorizer, dispatcher: dispatcher}
}

func (h AssignTransporterCommandHandler) Handle(ctx context.Context, cmd AssignTransporterCommand) error {
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

	requests := uow.TransportRequestRepository()
	r, err := requests.Get(ctx, cmd.RequestID())
	if err != nil {
		return err
	}
	parties, err := requestCooperative(ctx, uow, r)
	if err != nil {
		return err
	}
	if err = ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceTransport, ports.ActionAssign, parties...); err != nil {
		return err
	}

	now := time.Now()
	var assignee *transport.Transporter
	if id := cmd.TransporterID(); id != nil {
		assignee, err = uow.TransporterRepository().Get(ctx, *id)
		if err != nil {
			return err
		}
		committed, loadErr := committedLoadKg(ctx, requests, assignee.ID(), r)
		if loadErr != nil {
			return loadErr
		}
		if err = h.dispatcher.Assign(r, services.Candidate{Transporter: assignee, CommittedKg: committed}, now); err != nil {
			return err
		}
	} else {
		active, listErr := uow.TransporterRepository().GetAllActive(ctx)
		if listErr != nil {
			return listErr
		}
		candidates := make([]services.Candidate, 0, len(active))
		for _, t := range active {
			committed, loadErr := committedLoadKg(ctx, requests, t.ID(), r)
			if loadErr != nil {
				return loadErr
			}
			candidates = append(candidates, services.Candidate{Transporter: t, CommittedKg: committed})
		}
		if assignee, err = h.dispatcher.Dispatch(r, candidates, now); err != nil {
			return err
		}
	}

	if err = requests.Update(ctx, r); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "transport.assign", cmd.Actor(), r.ID(), map[string]any{
		"transporterId": assignee.ID().String(),
		"loadKg":        r.LoadKg().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
