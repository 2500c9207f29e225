package commands

import (
	"context"
	"errors"

	"agritrade/internal/core/domain/model/contract"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/core/domain/services"
	"agritrade/internal/pkg/errs"
)

// fulfillContract closes a delivered contract: lots are consumed, the pending escrow
// is settled and the contract's storage is given back.
func fulfillContract(ctx context.Context, uow UoW, ledger services.InventoryLedger, c *contract.Contract) error {
	if err := c.Fulfill(); err != nil {
		return err
	}
	if err := ledger.Consume(ctx, uow.LotRepository(), c.LotIDs()); err != nil {
		return err
	}

	entries := uow.LedgerRepository()
	escrow, err := entries.GetEscrow(ctx, c.ID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
	case err != nil:
		return err
	case escrow.Status() == settlement.EntryPending:
		if err = escrow.Settle(); err != nil {
			return err
		}
		if err = entries.Update(ctx, escrow); err != nil {
			return err
		}
	}

	if err = releaseContractStorage(ctx, uow, c.ID()); err != nil {
		return err
	}
	return uow.ContractRepository().Update(ctx, c)
}

// cancelContract unwinds a contract whose goods are still at the cooperative.
func cancelContract(ctx context.Context, uow UoW, ledger services.InventoryLedger, c *contract.Contract) error {
	transports := uow.TransportRequestRepository()
	requests, err := transports.GetByContractID(ctx, c.ID())
	if err != nil {
		return err
	}
	for _, r := range requests {
		if r.Status().HasGoods() {
			return ErrGoodsAlreadyPickedUp
		}
	}

	if err = c.Cancel(); err != nil {
		return err
	}
	if err = ledger.Release(ctx, uow.LotRepository(), c.LotIDs()); err != nil {
		return err
	}
	if err = releaseContractStorage(ctx, uow, c.ID()); err != nil {
		return err
	}

	for _, r := range requests {
		if r.Status() == transport.Cancelled {
			continue
		}
		if err = r.Cancel(); err != nil {
			return err
		}
		if err = transports.Update(ctx, r); err != nil {
			return err
		}
	}

	entries := uow.LedgerRepository()
	escrow, err := entries.GetEscrow(ctx, c.ID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
	case err != nil:
		return err
	case escrow.Status() == settlement.EntryPending:
		if err = escrow.Fail(); err != nil {
			return err
		}
		if err = entries.Update(ctx, escrow); err != nil {
			return err
		}
	}

	return uow.ContractRepository().Update(ctx, c)
}

func releaseContractStorage(ctx context.Context, uow UoW, contractID kernel.UUID) error {
	bookings := uow.StorageBookingRepository()
	open, err := bookings.GetOpenByContractID(ctx, contractID)
	if err != nil {
		return err
	}
	facilities := uow.StorageFacilityRepository()
	for _, b := range open {
		facility, getErr := facilities.Get(ctx, b.FacilityID())
		if getErr != nil {
			return getErr
		}
		if err = b.Release(facility); err != nil {
			return err
		}
		if err = bookings.Update(ctx, b); err != nil {
			return err
		}
		if err = facilities.Update(ctx, facility); err != nil {
			return err
		}
	}
	return nil
}
