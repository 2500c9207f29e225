package commands

import (
	"context"

	"agritrade/internal/core/ports"
)

// RelayOutboxCommandHandler publishes committed domain events in insertion order.
// Delivery is at least once: an event is marked processed only after Publish succeeds,
// and the first failure stops the batch so later events are not sent ahead of it.
type RelayOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.EventPublisher
}

func NewRelayOutboxCommandHandler(uowFactory OutboxUoWFactory, publisher ports.EventPublisher) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

func (h RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (int, error) {
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

	outbox := uow.OutboxRepository()
	events, err := outbox.GetUnprocessed(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	published := 0
	var publishErr error
	for _, event := range events {
		if publishErr = h.publisher.Publish(ctx, event); publishErr != nil {
			break
		}
		if err = outbox.MarkProcessed(ctx, event.ID); err != nil {
			return 0, err
		}
		published++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return published, publishErr
}
