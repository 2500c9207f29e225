// Package eventbus is the in-process EventPublisher. Published events are queued on
// a buffered channel and fanned out to subscribers by Run.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/ports"
	"agritrade/internal/pkg/errs"
)

// Handler receives every event in publish order. It must not block for long.
type Handler func(ctx context.Context, event kernel.DomainEvent)

type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	events   chan kernel.DomainEvent
	logger   *slog.Logger
}

func NewBus(buffer int, logger *slog.Logger) *Bus {
	if buffer <= 0 {
		buffer = 256
	}
	return &Bus{
		events: make(chan kernel.DomainEvent, buffer),
		logger: logger.With("component", "eventbus"),
	}
}

func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish queues the event. A full queue blocks until ctx is done, which
// surfaces as an adapter timeout so the outbox keeps the event.
func (b *Bus) Publish(ctx context.Context, event kernel.DomainEvent) error {
	select {
	case b.events <- event:
		return nil
	case <-ctx.Done():
		return errs.NewAdapterTimeoutError("eventbus", ctx.Err())
	}
}

// Run dispatches until ctx is cancelled.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-b.events:
			b.dispatch(ctx, event)
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, event kernel.DomainEvent) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("subscriber panicked", "event", event.Name, "panic", r)
				}
			}()
			h(ctx, event)
		}()
	}
}

// LogSubscriber writes one structured line per event.
func LogSubscriber(logger *slog.Logger) Handler {
	logger = logger.With("component", "events")
	return func(ctx context.Context, event kernel.DomainEvent) {
		logger.InfoContext(ctx, "domain event",
			"name", event.Name,
			"eventId", event.ID.String(),
			"aggregateId", event.AggregateID.String(),
			"occurredAt", event.OccurredAt,
		)
	}
}

// Fanout publishes to every publisher in order and stops at the first error.
// Delivery is at least once, so a retried event may reach earlier publishers twice.
type Fanout []ports.EventPublisher

func (f Fanout) Publish(ctx context.Context, event kernel.DomainEvent) error {
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
