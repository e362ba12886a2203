package realtime

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"seedling/internal/common"
)

type MatchChecker interface {
	IsMatched(ctx context.Context, userA, userB string) (bool, error)
}

type TypingPayload struct {
	FromUserID string `json:"from_user_id"`
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TypingRelay forwards "is typing" signals between matched users. Each sender
// gets a token bucket; signals over the limit are dropped without error.
type TypingRelay struct {
	publisher Publisher
	matches   MatchChecker
	rps       rate.Limit
	burst     int

	mu       sync.Mutex
	limiters map[string]*limiterEntry
	ttl      time.Duration
	lookups  uint64
}

func NewTypingRelay(publisher Publisher, matches MatchChecker, rps float64, burst int) *TypingRelay {
	if rps <= 0 {
		rps = 2
	}
	if burst <= 0 {
		burst = 1
	}
	return &TypingRelay{
		publisher: publisher,
		matches:   matches,
		rps:       rate.Limit(rps),
		burst:     burst,
		limiters:  make(map[string]*limiterEntry),
		ttl:       10 * time.Minute,
	}
}

func (t *TypingRelay) limiterFor(userID string) *rate.Limiter {
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	// evict idle buckets every few thousand lookups
	t.lookups++
	if t.lookups >= 5000 {
		for k, e := range t.limiters {
			if now.Sub(e.lastSeen) >= t.ttl {
				delete(t.limiters, k)
			}
		}
		t.lookups = 0
	}

	if e, ok := t.limiters[userID]; ok {
		e.lastSeen = now
		return e.limiter
	}
	lim := rate.NewLimiter(t.rps, t.burst)
	t.limiters[userID] = &limiterEntry{limiter: lim, lastSeen: now}
	return lim
}

// Typing reports whether the signal was forwarded.
func (t *TypingRelay) Typing(ctx context.Context, fromID, toID string) (bool, error) {
	if fromID == "" || toID == "" {
		return false, common.Validation("sender and recipient are required")
	}
	if fromID == toID {
		return false, common.Validation("cannot send typing signal to yourself")
	}
	if !t.limiterFor(fromID).Allow() {
		return false, nil
	}

	matched, err := t.matches.IsMatched(ctx, fromID, toID)
	if err != nil {
		return false, common.Internal("check match", err)
	}
	if !matched {
		return false, common.ErrNotMatched
	}

	t.publisher.Publish(toID, EventTyping, TypingPayload{FromUserID: fromID})
	return true, nil
}
