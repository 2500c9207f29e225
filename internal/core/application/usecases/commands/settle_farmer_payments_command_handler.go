package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agritrade/internal/core/domain/model/contract"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/core/domain/services"
	"agritrade/internal/core/ports"
	"agritrade/internal/pkg/errs"
)

// SettleFarmerPaymentsCommandHandler splits a fulfilled contract's price into pending
// farmer balances. A contract is settled once.
type SettleFarmerPaymentsCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
	calculator services.SettlementCalculator
}

func NewSettleFarmerPaymentsCommandHandler(
	uowFactory UoWFactory,
	authorizer ports.Authorizer,
	calculator services.SettlementCalculator,
) SettleFarmerPaymentsCommandHandler {
	return SettleFarmerPaymentsCommandHandler{uowFactory: uowFactory, authorizer: authorizer, calculator: calculator}
}

// Handle returns the IDs of the balances it created.
func (h SettleFarmerPaymentsCommandHandler) Handle(ctx context.Context, cmd SettleFarmerPaymentsCommand) ([]kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	c, err := uow.ContractRepository().Get(ctx, cmd.ContractID())
	if err != nil {
		return nil, err
	}
	if err = ensureAllowed(h.authorizer, cmd.Actor(), ports.ResourcePayout, ports.ActionSettle, c.CooperativeID()); err != nil {
		return nil, err
	}
	if c.Status() != contract.Fulfilled {
		return nil, errs.NewInvalidTransitionError("contract", c.Status().String(), "settle")
	}

	escrow, err := uow.LedgerRepository().GetEscrow(ctx, c.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, ErrEscrowNotSettled
	}
	if err != nil {
		return nil, err
	}
	if escrow.Status() != settlement.EntrySettled {
		return nil, fmt.Errorf("%w: escrow is %s", ErrEscrowNotSettled, escrow.Status())
	}

	balances := uow.FarmerBalanceRepository()
	existing, err := balances.GetByContractID(ctx, c.ID())
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrAlreadySettled
	}

	shares, err := h.calculator.Split(c.AgreedPrice(), c.Lots())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ids := make([]kernel.UUID, 0, len(shares))
	for _, share := range shares {
		if share.Amount.IsZero() {
			continue
		}
		b, newErr := settlement.NewFarmerBalance(settlement.BalanceParams{
			ID:         kernel.NewUUID(),
			FarmerID:   share.FarmerID,
			ContractID: c.ID(),
			Amount:     share.Amount,
			Method:     cmd.PaymentMethod(),
		}, now)
		if newErr != nil {
			return nil, newErr
		}
		err = balances.Add(ctx, b)
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			return nil, ErrAlreadySettled
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, b.ID())
	}

	if err = writeAudit(ctx, uow, "payout.settle", cmd.Actor(), c.ID(), map[string]any{
		"farmers": len(ids),
		"total":   c.AgreedPrice().String(),
		"method":  cmd.PaymentMethod().String(),
	}); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}
