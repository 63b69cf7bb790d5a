package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisPublisherDefaultChannel(t *testing.T) {
	p := NewRedisPublisher(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), "", nil)
	t.Cleanup(func() { _ = p.client.Close() })
	assert.Equal(t, DefaultChannel, p.channel)
}

func TestRedisPublisherUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	p := NewRedisPublisher(client, "test:events", nil)

	err := p.Publish(context.Background(), New(TypePollRemoved, "g1", "c1", "m1", nil))
	assert.ErrorContains(t, err, "redis publish")
}

func TestRedisPublisherPublish(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisContainer.Terminate(context.Background()) })

	uri, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	sub := client.Subscribe(ctx, "test:events")
	t.Cleanup(func() { _ = sub.Close() })
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	sent := New(TypeVoteRetracted, "g1", "c1", "m1", VoteRetractedPayload{UserID: "alice", Kept: "🍕", Requested: 2, Failed: 1})
	require.NoError(t, NewRedisPublisher(client, "test:events", nil).Publish(ctx, sent))

	select {
	case msg := <-sub.Channel():
		var got Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, sent.ID, got.ID)
		assert.Equal(t, TypeVoteRetracted, got.Type)
		assert.JSONEq(t, string(sent.Payload), string(got.Payload))
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}
}
