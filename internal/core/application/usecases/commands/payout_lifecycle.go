package commands

import (
	"context"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/core/ports"
)

// payFarmer marks the balance paid and books the matching settled payout entry.
func payFarmer(ctx context.Context, uow SettlementRepoFactory, b *settlement.FarmerBalance, txRef string, now time.Time) error {
	if err := b.MarkPaid(txRef, now); err != nil {
		return err
	}
	entry, err := settlement.NewLedgerEntry(kernel.NewUUID(), b.ContractID(), settlement.Payout, b.Amount(), b.Reference(), now)
	if err != nil {
		return err
	}
	if err = entry.Settle(); err != nil {
		return err
	}
	if err = uow.LedgerRepository().Add(ctx, entry); err != nil {
		return err
	}
	return uow.FarmerBalanceRepository().Update(ctx, b)
}

// changePayout runs a manual payout correction by the cooperative that owns the contract.
func changePayout(
	ctx context.Context,
	uowFactory UoWFactory,
	authorizer ports.Authorizer,
	actor kernel.Actor,
	balanceID kernel.UUID,
	action string,
	change func(uow UoW, b *settlement.FarmerBalance) error,
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	b, err := uow.FarmerBalanceRepository().Get(ctx, balanceID)
	if err != nil {
		return err
	}
	c, err := uow.ContractRepository().Get(ctx, b.ContractID())
	if err != nil {
		return err
	}
	if err = ensureAllowed(authorizer, actor, ports.ResourcePayout, action, c.CooperativeID()); err != nil {
		return err
	}
	from := b.Status()
	if err = change(uow, b); err != nil {
		return err
	}
	if err = writeAudit(ctx, uow, "payout."+action, actor, b.ID(), map[string]any{
		"from":      from.String(),
		"to":        b.Status().String(),
		"reference": b.Reference(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
