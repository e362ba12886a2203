package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachableClient(t *testing.T) redis.UniversalClient {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:       []string{"127.0.0.1:1"},
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisRelay_ChannelNames(t *testing.T) {
	relay := NewRedisRelay(unreachableClient(t), NewHub(1), "app")

	assert.Equal(t, "app:user:alice", relay.channel("alice"))

	id, ok := relay.userFromChannel("app:user:alice")
	assert.True(t, ok)
	assert.Equal(t, "alice", id)

	_, ok = relay.userFromChannel("other:user:alice")
	assert.False(t, ok)
	_, ok = relay.userFromChannel("app:user:")
	assert.False(t, ok)
}

func TestRedisRelay_HandleDeliversToLocalHub(t *testing.T) {
	hub := NewHub(4)
	sub := hub.Subscribe("bob")
	relay := NewRedisRelay(unreachableClient(t), hub, "")

	ev, err := NewEvent("new_message", map[string]int{"id": 7})
	require.NoError(t, err)
	data, err := json.Marshal(ev)
	require.NoError(t, err)

	relay.handle("seedling:user:bob", string(data))
	relay.handle("seedling:user:bob", "not json")
	relay.handle("elsewhere", string(data))

	got := <-sub.Events()
	assert.Equal(t, "new_message", got.Name)
	assert.JSONEq(t, `{"id":7}`, string(got.Payload))
	assert.Empty(t, sub.Events())
}

func TestRedisRelay_PublishFallsBackToLocalDelivery(t *testing.T) {
	hub := NewHub(4)
	sub := hub.Subscribe("bob")
	relay := NewRedisRelay(unreachableClient(t), hub, "seedling")

	relay.Publish("bob", "messages_read", map[string]int{"count": 2})

	select {
	case ev := <-sub.Events():
		assert.Equal(t, "messages_read", ev.Name)
	default:
		t.Fatal("expected local delivery when redis is down")
	}
	assert.True(t, relay.IsOnline("bob"))
}

func TestNewRedisClient_Validation(t *testing.T) {
	_, err := NewRedisClient("")
	assert.Error(t, err)

	_, err = NewRedisClient("://nope")
	assert.Error(t, err)
}

// Needs a live server: REDIS_INTEGRATION=redis://localhost:6379/0
func TestRedisRelay_Integration(t *testing.T) {
	url := os.Getenv("REDIS_INTEGRATION")
	if url == "" {
		t.Skip("REDIS_INTEGRATION not set")
	}
	client, err := NewRedisClient(url)
	require.NoError(t, err)
	defer client.Close()

	hub := NewHub(4)
	sub := hub.Subscribe("alice")
	relay := NewRedisRelay(client, hub, "seedling_test")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = relay.Run(ctx) }()

	require.Eventually(t, func() bool {
		relay.Publish("alice", "new_message", map[string]string{"content": "over redis"})
		select {
		case ev := <-sub.Events():
			return ev.Name == "new_message"
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)
}

func TestRedisRelay_SuperviseRestartsUntilCancelled(t *testing.T) {
	relay := NewRedisRelay(unreachableClient(t), NewHub(1), "")

	var attempts atomic.Int32
	relay.run = func(ctx context.Context) error {
		if attempts.Add(1) < 3 {
			return errors.New("subscribe to relay channels: connection refused")
		}
		// third subscription stays up until shutdown
		<-ctx.Done()
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		relay.Supervise(ctx, time.Millisecond, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return attempts.Load() == 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Supervise did not return after cancel")
	}
	assert.Equal(t, int32(3), attempts.Load())
}

func TestRedisRelay_SuperviseAgainstUnreachableRedis(t *testing.T) {
	relay := NewRedisRelay(unreachableClient(t), NewHub(1), "")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	relay.Supervise(ctx, 5*time.Millisecond, 20*time.Millisecond)
	assert.Less(t, time.Since(start), 2*time.Second)
}
