package commands

import (
	"context"
	"errors"

	"agritrade/internal/core/ports"
	"agritrade/internal/pkg/errs"
)

// DispatchPayoutsCommandHandler sends pending farmer balances to the payment gateway.
// The gateway retries transient failures itself; a balance whose call still fails is
// marked Failed and waits for a manual retry.
type DispatchPayoutsCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.PaymentGateway
}

func NewDispatchPayoutsCommandHandler(uowFactory UoWFactory, gateway ports.PaymentGateway) DispatchPayoutsCommandHandler {
	return DispatchPayoutsCommandHandler{uowFactory: uowFactory, gateway: gateway}
}

// Handle returns how many balances were paid and how many failed.
func (h DispatchPayoutsCommandHandler) Handle(ctx context.Context, cmd DispatchPayoutsCommand) (paid, failed int, err error) {
	if err = cmd.Validate(); err != nil {
		return 0, 0, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return 0, 0, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	balances := uow.FarmerBalanceRepository()
	pending, err := balances.GetPending(ctx, cmd.BatchSize())
	if err != nil {
		return 0, 0, err
	}

	for _, b := range pending {
		txRef, payErr := h.gateway.Pay(ctx, ports.PayoutInstruction{
			Reference: b.Reference(),
			FarmerID:  b.FarmerID(),
			Amount:    b.Amount(),
			Method:    b.Method(),
		})
		switch {
		case payErr == nil:
			if err = payFarmer(ctx, uow, b, txRef, cmd.Now()); err != nil {
				return 0, 0, err
			}
			paid++
		case errors.Is(payErr, errs.ErrAdapterTimeout), errors.Is(payErr, errs.ErrAdapterFailure):
			if err = b.MarkFailed(payErr.Error()); err != nil {
				return 0, 0, err
			}
			if err = balances.Update(ctx, b); err != nil {
				return 0, 0, err
			}
			failed++
		default:
			return 0, 0, payErr
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, 0, err
	}
	return paid, failed, nil
}
