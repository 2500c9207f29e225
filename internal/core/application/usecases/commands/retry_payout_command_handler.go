package commands

import (
	"context"
	"time"

	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/core/ports"
)

// RetryPayoutCommandHandler queues a failed payout again. The amount is kept and the
// reference renewed so the provider does not treat it as a duplicate.
type RetryPayoutCommandHandler struct {
	uowFactory UoWFactory
	authorizer ports.Authorizer
}

func NewRetryPayoutCommandHandler(uowFactory UoWFactory, authorizer ports.Authorizer) RetryPayoutCommandHandler {
	return RetryPayoutCommandHandler{uowFactory: uowFactory, authorizer: authorizer}
}

func (h RetryPayoutCommandHandler) Handle(ctx context.Context, cmd RetryPayoutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return changePayout(ctx, h.uowFactory, h.authorizer, cmd.Actor(), cmd.BalanceID(), ports.ActionRetry,
		func(uow UoW, b *settlement.FarmerBalance) error {
			if err := b.Retry(time.Now()); err != nil {
				return err
			}
			return uow.FarmerBalanceRepository().Update(ctx, b)
		})
}
