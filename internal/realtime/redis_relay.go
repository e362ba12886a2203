package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedisClient connects to the Redis instance behind url and pings it.
func NewRedisClient(url string) (redis.UniversalClient, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url must be provided")
	}
	parsed, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        []string{parsed.Addr},
		Username:     parsed.Username,
		Password:     parsed.Password,
		DB:           parsed.DB,
		TLSConfig:    parsed.TLSConfig,
		DialTimeout:  parsed.DialTimeout,
		ReadTimeout:  parsed.ReadTimeout,
		WriteTimeout: parsed.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info().Str("addr", parsed.Addr).Msg("connected to redis relay")
	return client, nil
}

// RedisRelay publishes through Redis so that every API instance delivers the
// event to the subscribers it holds locally.
type RedisRelay struct {
	client redis.UniversalClient
	hub    *Hub
	prefix string
	run    func(ctx context.Context) error
}

func NewRedisRelay(client redis.UniversalClient, hub *Hub, prefix string) *RedisRelay {
	if prefix == "" {
		prefix = "seedling"
	}
	r := &RedisRelay{client: client, hub: hub, prefix: prefix}
	r.run = r.Run
	return r
}

func (r *RedisRelay) channel(userID string) string {
	return r.prefix + ":user:" + userID
}

// userFromChannel is the inverse of channel.
func (r *RedisRelay) userFromChannel(channel string) (string, bool) {
	userID, ok := strings.CutPrefix(channel, r.prefix+":user:")
	return userID, ok && userID != ""
}

// Publish falls back to local delivery when Redis is unreachable.
func (r *RedisRelay) Publish(userID, event string, payload interface{}) {
	ev, err := NewEvent(event, payload)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("dropping realtime event")
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("dropping realtime event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.client.Publish(ctx, r.channel(userID), data).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("event", event).Msg("redis publish failed, delivering locally")
		r.hub.Deliver(userID, ev)
	}
}

// IsOnline only knows about subscribers held by this instance.
func (r *RedisRelay) IsOnline(userID string) bool {
	return r.hub.IsOnline(userID)
}

// Run consumes relayed events until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.client.PSubscribe(ctx, r.prefix+":user:*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to relay channels: %w", err)
	}
	log.Info().Str("pattern", r.prefix+":user:*").Msg("realtime relay listening")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.handle(msg.Channel, msg.Payload)
		}
	}
}

// Supervise keeps the relay subscribed until ctx ends, restarting Run with
// exponential backoff capped at maxDelay whenever it fails or its channel closes.
func (r *RedisRelay) Supervise(ctx context.Context, initialDelay, maxDelay time.Duration) {
	delay := initialDelay
	for attempt := 1; ; attempt++ {
		started := time.Now()
		err := r.run(ctx)
		if ctx.Err() != nil {
			return
		}
		// a subscription that stayed up for a while starts over from the short delay
		if time.Since(started) > maxDelay {
			delay = initialDelay
		}

		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("realtime relay stopped, resubscribing")

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}

func (r *RedisRelay) handle(channel, payload string) {
	userID, ok := r.userFromChannel(channel)
	if !ok {
		log.Debug().Str("channel", channel).Msg("ignoring relay message on unknown channel")
		return
	}
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("malformed relay message")
		return
	}
	r.hub.Deliver(userID, ev)
}
