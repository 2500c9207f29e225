package commands

import (
	"context"
	"time"

	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/core/ports"
)

type ConfirmPayoutCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewConfirmPayoutCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) ConfirmPayoutCommandHandler {
	return ConfirmPayoutCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h ConfirmPayoutCommandHandler) Handle(ctx context.Context, cmd ConfirmPayoutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return changePayout(ctx, h.uowFactory, h.authorizer, cmd.Actor(), cmd.BalanceID(), ports.ActionConfirm,
		func(uow UoW, b *settlement.FarmerBalance) error {
			return payFarmer(ctx, uow, b, cmd.TransactionReference(), time.Now())
		})
}
