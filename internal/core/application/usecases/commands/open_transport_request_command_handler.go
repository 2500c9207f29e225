package commands

import (
	"context"
	"fmt"
	"time"

	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/core/ports"

	"github.com/shopspring/decimal"
)

// OpenTransportRequestCommandHandler asks for a truck to haul part or all of a contract's
// produce to the buyer. Opening the first request activates a draft contract.
type OpenTransportRequestCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewOpenTransportRequestCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) OpenTransportRequestCommandHandler {
	return OpenTransportRequestCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h OpenTransportRequestCommandHandler) Handle(ctx context.Context, cmd OpenTransportRequestCommand) error {
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
	if err = ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceTransport, ports.ActionCreate, c.CooperativeID()); err != nil {
		return err
	}
	if err = c.Activate(); err != nil {
		return err
	}

	o, err := uow.OrderRepository().Get(ctx, c.OrderID())
	if err != nil {
		return err
	}

	requests := uow.TransportRequestRepository()
	existing, err := requests.GetByContractID(ctx, c.ID())
	if err != nil {
		return err
	}
	planned := decimal.Zero
	for _, r := range existing {
		if r.Status() != transport.Cancelled {
			planned = planned.Add(r.LoadKg())
		}
	}
	if planned.Add(cmd.LoadKg()).GreaterThan(c.TotalQuantityKg()) {
		return fmt.Errorf("%w: %s kg planned, %s kg requested, %s kg contracted",
			ErrLoadExceedsContract, planned, cmd.LoadKg(), c.TotalQuantityKg())
	}

	now := time.Now()
	window, err := transport.DefaultPickupWindow(now)
	if err != nil {
		return err
	}
	if w := cmd.PickupWindow(); w != nil {
		window = *w
	}

	contractID := c.ID()
	r, err := transport.NewRequest(transport.Params{
		ID:           cmd.RequestID(),
		ContractID:   &contractID,
		Origin:       cmd.Origin(),
		Destination:  o.DeliveryLocation(),
		LoadKg:       cmd.LoadKg(),
		PickupWindow: window,
		Price:        cmd.Price(),
	}, now)
	if err != nil {
		return err
	}
	if err = requests.Add(ctx, r); err != nil {
		return err
	}
	if err = contracts.Update(ctx, c); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "transport.open", cmd.Actor(), r.ID(), map[string]any{
		"contractId": c.ID().String(),
		"loadKg":     r.LoadKg().String(),
		"price":      r.Price().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
