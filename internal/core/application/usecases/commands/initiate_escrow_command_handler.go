package commands

import (
	"context"
	"errors"
	"time"

	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/core/ports"
	"agritrade/internal/pkg/errs"
)

// InitiateEscrowCommandHandler holds the buyer's payment for a contract. The escrow is
// settled when the contract is fulfilled and failed when it is cancelled.
type InitiateEscrowCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewInitiateEscrowCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) InitiateEscrowCommandHandler {
	return InitiateEscrowCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h InitiateEscrowCommandHandler) Handle(ctx context.Context, cmd InitiateEscrowCommand) error {
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

	c, err := uow.ContractRepository().Get(ctx, cmd.ContractID())
	if err != nil {
		return err
	}
	if err = ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourceEscrow, ports.ActionCreate, c.BuyerID()); err != nil {
		return err
	}
	if c.Status().IsTerminal() {
		return errs.NewInvalidTransitionError("contract", c.Status().String(), "escrow")
	}

	entries := uow.LedgerRepository()
	_, err = entries.GetEscrow(ctx, c.ID())
	switch {
	case err == nil:
		return ErrEscrowExists
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	entry, err := settlement.NewLedgerEntry(
		cmd.EntryID(), c.ID(), settlement.Escrow, c.AgreedPrice(), "ESCROW-"+c.TrackingID(), time.Now(),
	)
	if err != nil {
		return err
	}
	if err = entries.Add(ctx, entry); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "escrow.initiate", cmd.Actor(), c.ID(), map[string]any{
		"entryId": entry.ID().String(),
		"amount":  entry.Amount().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
