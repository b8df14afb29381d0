package play

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/nightbus/nightbus/internal/platform/requestctx"
	"github.com/nightbus/nightbus/internal/platform/timeouts"
	"github.com/nightbus/nightbus/internal/services/game/storage"
	"go.opentelemetry.io/otel/trace"
)

// DefaultAnalyticsQueueSize bounds the analytics backlog.
const DefaultAnalyticsQueueSize = 256

// Recorder writes analytics events asynchronously. Record never blocks the
// caller: when the queue is full or the write fails the event is logged and
// dropped. A nil Recorder discards everything.
type Recorder struct {
	store   storage.AnalyticsStore
	clock   func() time.Time
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan storage.AnalyticsEvent
	done   chan struct{}
}

// NewRecorder starts the goroutine that drains events into store.
// It returns nil when store is nil.
func NewRecorder(store storage.AnalyticsStore, queueSize int) *Recorder {
	if store == nil {
		return nil
	}
	if queueSize <= 0 {
		queueSize = DefaultAnalyticsQueueSize
	}
	r := &Recorder{
		store:   store,
		clock:   time.Now,
		timeout: timeouts.AnalyticsWrite,
		queue:   make(chan storage.AnalyticsEvent, queueSize),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Record stamps evt with the request id, trace id and time from ctx and
// queues it.
func (r *Recorder) Record(ctx context.Context, evt storage.AnalyticsEvent) {
	if r == nil {
		return
	}
	if evt.RequestID == "" {
		evt.RequestID = requestctx.RequestIDFromContext(ctx)
	}
	if evt.TraceID == "" {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			evt.TraceID = sc.TraceID().String()
		}
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = r.clock().UTC()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		log.Printf("analytics recorder closed, dropping %s for %s", evt.Kind, evt.CharacterID)
		return
	}
	select {
	case r.queue <- evt:
	default:
		log.Printf("analytics queue full, dropping %s for %s", evt.Kind, evt.CharacterID)
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (r *Recorder) Close() {
	if r == nil {
		return
	}
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for evt := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		if err := r.store.AppendAnalyticsEvent(ctx, evt); err != nil {
			log.Printf("analytics write %s for %s: %v", evt.Kind, evt.CharacterID, err)
		}
		cancel()
	}
}
