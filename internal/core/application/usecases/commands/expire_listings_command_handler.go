package commands

import (
	"context"
)

const defaultBatchSize = 100

type ExpireListingsCommandHandler struct {
	uowFactory UoWFactory
}

func NewExpireListingsCommandHandler(uowFactory UoWFactory) ExpireListingsCommandHandler {
	return ExpireListingsCommandHandler{uowFactory: uowFactory}
}

// Handle closes one batch of listings past their window and returns how many it expired.
func (h ExpireListingsCommandHandler) Handle(ctx context.Context, cmd ExpireListingsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	listings := uow.ListingRepository()
	expired, err := listings.GetExpired(ctx, cmd.Now(), cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	for _, l := range expired {
		if err = l.Expire(cmd.Now()); err != nil {
			return 0, err
		}
		if err = listings.Update(ctx, l); err != nil {
			return 0, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return len(expired), nil
}
