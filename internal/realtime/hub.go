// Package realtime fans events out to the live connections of a user.
// Delivery is best effort: nothing is queued for users that are offline.
package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"seedling/internal/metrics"
)

const EventTyping = "typing"

// Publisher is what the rest of the app needs from the fanout layer.
type Publisher interface {
	Publish(userID, event string, payload interface{})
	IsOnline(userID string) bool
}

// Event is the wire shape shared by every transport and the Redis relay.
type Event struct {
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	SentAt  time.Time       `json:"sent_at"`
}

func NewEvent(name string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", name, err)
	}
	return Event{Name: name, Payload: raw, SentAt: time.Now().UTC()}, nil
}

type Subscription struct {
	UserID string
	events chan Event
}

// Events is closed once the subscription is removed from the hub.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Hub is the in-process registry of subscriptions keyed by user id.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
	}
}

func (h *Hub) Subscribe(userID string) *Subscription {
	sub := &Subscription{UserID: userID, events: make(chan Event, h.buffer)}

	h.mu.Lock()
	set, ok := h.subs[userID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[userID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	metrics.RealtimeSubscribers.Inc()
	log.Debug().Str("user_id", userID).Msg("realtime subscriber joined")
	return sub
}

// Unsubscribe is safe to call more than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[sub.UserID]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.UserID)
	}
	close(sub.events)
	metrics.RealtimeSubscribers.Dec()
}

// Publish encodes payload and delivers it to the user's local subscribers.
func (h *Hub) Publish(userID, event string, payload interface{}) {
	ev, err := NewEvent(event, payload)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("dropping realtime event")
		return
	}
	h.Deliver(userID, ev)
}

// Deliver hands ev to every subscriber of userID without blocking. A subscriber
// whose buffer is full misses the event. It returns the number of deliveries.
func (h *Hub) Deliver(userID string, ev Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	set := h.subs[userID]
	if len(set) == 0 {
		metrics.RealtimeEvents.WithLabelValues(ev.Name, "no_subscriber").Inc()
		return 0
	}

	delivered := 0
	for sub := range set {
		select {
		case sub.events <- ev:
			delivered++
			metrics.RealtimeEvents.WithLabelValues(ev.Name, "delivered").Inc()
		default:
			metrics.RealtimeEvents.WithLabelValues(ev.Name, "dropped").Inc()
			log.Warn().Str("user_id", userID).Str("event", ev.Name).Msg("subscriber buffer full, event dropped")
		}
	}
	return delivered
}

func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID]) > 0
}

// Close drops every subscription, ending all open streams.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, set := range h.subs {
		for sub := range set {
			close(sub.events)
			metrics.RealtimeSubscribers.Dec()
		}
		delete(h.subs, userID)
	}
}
