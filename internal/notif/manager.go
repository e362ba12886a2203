package notif

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"seedling/internal/common"
	"seedling/internal/metrics"
)

// PrepareFunc runs on a worker before observers see the event. It may enrich
// the event in place; returning false skips it.
type PrepareFunc func(ctx context.Context, event *common.NotificationEvent) bool

// NotificationManager fans queued events out to observers on a fixed pool of
// workers. Enqueueing never blocks the caller. Observers run in subscription
// order.
type NotificationManager struct {
	observers    []common.Observer
	eventChannel chan common.NotificationEvent
	workerPool   int
	prepare      PrepareFunc
	ctx          context.Context
	cancel       context.CancelFunc
	mu           sync.RWMutex
	closed       bool
	wg           sync.WaitGroup
}

var _ common.Subject = (*NotificationManager)(nil)

func NewNotificationManager(workerPoolSize, bufferSize int) *NotificationManager {
	if workerPoolSize <= 0 {
		workerPoolSize = 1
	}
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	ctx, cancel := context.WithCancel(context.Background())

	nm := &NotificationManager{
		eventChannel: make(chan common.NotificationEvent, bufferSize),
		workerPool:   workerPoolSize,
		ctx:          ctx,
		cancel:       cancel,
	}

	for i := 0; i < workerPoolSize; i++ {
		nm.wg.Add(1)
		go nm.processEvents()
	}

	return nm
}

// SetPrepare must be called before events are enqueued.
func (nm *NotificationManager) SetPrepare(fn PrepareFunc) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	nm.prepare = fn
}

func (nm *NotificationManager) Subscribe(observer common.Observer) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	for i, obs := range nm.observers {
		if obs.Name() == observer.Name() {
			nm.observers[i] = observer
			return
		}
	}
	nm.observers = append(nm.observers, observer)
	log.Info().Str("observer", observer.Name()).Msg("notification observer subscribed")
}

func (nm *NotificationManager) Unsubscribe(observer common.Observer) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	for i, obs := range nm.observers {
		if obs.Name() == observer.Name() {
			nm.observers = append(nm.observers[:i:i], nm.observers[i+1:]...)
			break
		}
	}
	log.Info().Str("observer", observer.Name()).Msg("notification observer unsubscribed")
}

// Notify runs every observer synchronously. Observer failures are logged only.
func (nm *NotificationManager) Notify(event common.NotificationEvent) {
	nm.mu.RLock()
	observers := make([]common.Observer, len(nm.observers))
	copy(observers, nm.observers)
	nm.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Update(event); err != nil {
			log.Warn().Err(err).
				Str("observer", observer.Name()).
				Str("type", string(event.Type)).
				Str("user_id", event.UserID).
				Msg("notification observer failed")
		}
	}
}

// NotifyAsync queues event and reports whether it was accepted.
func (nm *NotificationManager) NotifyAsync(event common.NotificationEvent) bool {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	if nm.closed {
		return false
	}

	select {
	case nm.eventChannel <- event:
		return true
	default:
		metrics.Notifications.WithLabelValues(string(event.Type), "queue", "dropped").Inc()
		log.Warn().Str("type", string(event.Type)).Str("user_id", event.UserID).Msg("notification queue full, dropping event")
		return false
	}
}

func (nm *NotificationManager) processEvents() {
	defer nm.wg.Done()

	for event := range nm.eventChannel {
		nm.handle(event)
	}
}

func (nm *NotificationManager) handle(event common.NotificationEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("type", string(event.Type)).Msg("notification worker recovered")
		}
	}()

	nm.mu.RLock()
	prepare := nm.prepare
	nm.mu.RUnlock()

	if prepare != nil && !prepare(nm.ctx, &event) {
		metrics.Notifications.WithLabelValues(string(event.Type), "queue", "skipped").Inc()
		return
	}
	nm.Notify(event)
}

// Shutdown stops intake and waits for queued events to drain or ctx to end.
func (nm *NotificationManager) Shutdown(ctx context.Context) {
	nm.mu.Lock()
	if nm.closed {
		nm.mu.Unlock()
		return
	}
	nm.closed = true
	close(nm.eventChannel)
	nm.mu.Unlock()

	done := make(chan struct{})
	go func() {
		nm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("notification manager shutdown complete")
	case <-ctx.Done():
		log.Warn().Msg("notification manager shutdown timed out, abandoning queued events")
	}
	nm.cancel()
}
