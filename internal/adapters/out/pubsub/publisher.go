// Package pubsub publishes relayed domain events to a Google Cloud Pub/Sub topic.
package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"

	"cloud.google.com/go/pubsub"
	"github.com/cenkalti/backoff/v4"
)

const adapterName = "pubsub"

// Message is the JSON body of every published event.
type Message struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	AggregateID string         `json:"aggregateId"`
	OccurredAt  time.Time      `json:"occurredAt"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// Options bound one Publish call. Zero values fall back to the defaults below.
type Options struct {
	Timeout     time.Duration
	MaxAttempts uint64
}

type Publisher struct {
	topic *pubsub.Topic
	opts  Options
}

func NewPublisher(topic *pubsub.Topic, opts Options) *Publisher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = 3
	}
	return &Publisher{topic: topic, opts: opts}
}

// Publish sends the event and waits for the server ID. The event name and
// aggregate ID travel as attributes so subscriptions can filter on them.
func (p *Publisher) Publish(ctx context.Context, event kernel.DomainEvent) error {
	data, err := json.Marshal(Message{
		ID:          event.ID.String(),
		Name:        event.Name,
		AggregateID: event.AggregateID.String(),
		OccurredAt:  event.OccurredAt,
		Payload:     event.Payload,
	})
	if err != nil {
		return errs.NewAdapterFailureError(adapterName, err)
	}
	msg := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"name":        event.Name,
			"aggregateId": event.AggregateID.String(),
			"eventId":     event.ID.String(),
		},
	}

	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), p.opts.MaxAttempts-1),
		ctx,
	)
	err = backoff.Retry(func() error {
		_, getErr := p.topic.Publish(ctx, msg).Get(ctx)
		return getErr
	}, policy)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return errs.NewAdapterTimeoutError(adapterName, err)
	default:
		return errs.NewAdapterFailureError(adapterName, err)
	}
}

// EnsureTopic returns the topic, creating it when missing.
func EnsureTopic(ctx context.Context, client *pubsub.Client, id string) (*pubsub.Topic, error) {
	topic := client.Topic(id)
	ok, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		return topic, nil
	}
	return client.CreateTopic(ctx, id)
}
