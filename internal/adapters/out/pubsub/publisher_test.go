package pubsub_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	adapter "agritrade/internal/adapters/out/pubsub"
	"agritrade/internal/core/domain/model/kernel"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func newClient(t *testing.T) (*pstest.Server, *pubsub.Client) {
	t.Helper()
	srv := pstest.NewServer()
	t.Cleanup(func() { _ = srv.Close() })

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	client, err := pubsub.NewClient(context.Background(), "agritrade-test", option.WithGRPCConn(conn))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	srv, client := newClient(t)

	topic, err := adapter.EnsureTopic(ctx, client, "domain-events")
	require.NoError(t, err)
	defer topic.Stop()

	again, err := adapter.EnsureTopic(ctx, client, "domain-events")
	require.NoError(t, err)
	assert.Equal(t, topic.ID(), again.ID())

	event := kernel.DomainEvent{
		ID:          kernel.NewUUID(),
		Name:        "ContractFormed",
		AggregateID: kernel.NewUUID(),
		OccurredAt:  time.Now().UTC(),
		Payload:     map[string]any{"trackingId": "RASS-123456"},
	}
	publisher := adapter.NewPublisher(topic, adapter.Options{})
	require.NoError(t, publisher.Publish(ctx, event))

	messages := srv.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "ContractFormed", messages[0].Attributes["name"])
	assert.Equal(t, event.AggregateID.String(), messages[0].Attributes["aggregateId"])

	var body adapter.Message
	require.NoError(t, json.Unmarshal(messages[0].Data, &body))
	assert.Equal(t, event.ID.String(), body.ID)
	assert.Equal(t, "RASS-123456", body.Payload["trackingId"])
}
