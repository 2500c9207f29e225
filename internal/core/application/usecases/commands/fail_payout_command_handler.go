package commands

import (
	"context"

	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/core/ports"
)

type FailPayoutCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewFailPayoutCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) FailPayoutCommandHandler {
	return FailPayoutCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h FailPayoutCommandHandler) Handle(ctx context.Context, cmd FailPayoutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return changePayout(ctx, h.uowFactory, h.authorizer, cmd.Actor(), cmd.BalanceID(), ports.ActionFail,
		func(uow UoW, b *settlement.FarmerBalance) error {
			if err := b.MarkFailed(cmd.Reason()); err != nil {
				return err
			}
			return uow.FarmerBalanceRepository().Update(ctx, b)
		})
}
