package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agritrade/internal/core/domain/model/contract"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/listing"
	"agritrade/internal/core/domain/model/order"
	"agritrade/internal/core/domain/services"
	"agritrade/internal/core/ports"
	"agritrade/internal/pkg/errs"
)

const DefaultFormationLockTTL = 30 * time.Second

// FormContractCommandHandler turns an accepted order into a draft contract backed by lots.
//
// Reservation, commit, contract insert and listing decrement share one transaction.
// A per-order lock keeps two managers from forming the same order at once; the
// lot compare-and-swap keeps two orders from taking the same lot.
type FormContractCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
	locker     ports.Locker
	ledger     services.InventoryLedger
	lockTTL    time.Duration
}

func NewFormContractCommandHandler(
	uowFactory UoWFactory,
	authorizer ports.Authorizer,
	locker ports.Locker,
	ledger services.InventoryLedger,
	lockTTL time.Duration,
) FormContractCommandHandler {
	if lockTTL <= 0 {
		lockTTL = DefaultFormationLockTTL
	}
	return FormContractCommandHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
		locker:     locker,
		ledger:     ledger,
		lockTTL:    lockTTL,
	}
}

func (h FormContractCommandHandler) Handle(ctx context.Context, cmd FormContractCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	lock, err := h.locker.Obtain(ctx, "contract-formation:"+cmd.OrderID().String(), h.lockTTL)
	if errors.Is(err, ports.ErrLockNotObtained) {
		return ErrFormationInProgress
	}
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceContract, ports.ActionForm, o.CooperativeID()); err != nil {
		return err
	}
	if o.Status() != order.Accepted {
		return fmt.Errorf("%w: order is %s", ErrOrderNotAccepted, o.Status())
	}

	contracts := uow.ContractRepository()
	_, err = contracts.GetByOrderID(ctx, o.ID())
	switch {
	case err == nil:
		return ErrContractExists
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	lots := uow.LotRepository()
	token, err := h.ledger.Reserve(ctx, lots, services.ReservationRequest{
		LotIDs:        cmd.LotIDs(),
		RequiredKg:    o.QuantityKg(),
		CooperativeID: o.CooperativeID(),
		Crop:          o.Crop(),
	})
	if errors.Is(err, services.ErrInsufficientQuantity) {
		return fmt.Errorf("%w: %w", ErrQuantityMismatch, err)
	}
	if err != nil {
		return err
	}
	if err = h.ledger.Commit(ctx, lots, token); err != nil {
		return err
	}

	links := make([]contract.ContractLot, 0, len(token.Lots()))
	for i, reserved := range token.Lots() {
		link, linkErr := contract.NewContractLot(reserved.LotID, reserved.FarmerID, reserved.QuantityKg, i)
		if linkErr != nil {
			return linkErr
		}
		links = append(links, link)
	}

	price := cmd.AgreedPrice()
	if price.IsZero() {
		price = o.PriceOffer()
	}

	c, err := contract.NewContract(contract.Params{
		ID:            cmd.ContractID(),
		OrderID:       o.ID(),
		BuyerID:       o.BuyerID(),
		CooperativeID: o.CooperativeID(),
		TrackingID:    contract.NewTrackingID(),
		AgreedPrice:   price,
		Lots:          links,
	}, time.Now())
	if err != nil {
		return err
	}
	if err = contracts.Add(ctx, c); err != nil {
		return err
	}

	if listingID := o.ListingID(); listingID != nil {
		if err = h.allocateListing(ctx, uow, *listingID, o); err != nil {
			return err
		}
	}

	if err = writeAudit(ctx, uow, "contract.form", cmd.Actor(), c.ID(), map[string]any{
		"orderId":     o.ID().String(),
		"trackingId":  c.TrackingID(),
		"agreedPrice": c.AgreedPrice().String(),
		"totalKg":     c.TotalQuantityKg().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h FormContractCommandHandler) allocateListing(ctx context.Context, uow UoW, listingID kernel.UUID, o *order.Order) error {
	listings := uow.ListingRepository()
	l, err := listings.Get(ctx, listingID)
	if err != nil {
		return err
	}
	if l.Status() != listing.Active {
		return nil
	}
	if err = l.Allocate(o.QuantityKg()); err != nil {
		return err
	}
	return listings.Update(ctx, l)
}
