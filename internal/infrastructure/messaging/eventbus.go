// Package messaging delivers domain events to interested handlers.
package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/eklase-hub/schedule-hub/internal/domain/shared"
)

// Handler processes a single event.
type Handler func(ctx context.Context, event shared.Event) error

// EventBus publishes domain events.
type EventBus interface {
	Publish(ctx context.Context, event shared.Event) error
	Subscribe(eventType shared.EventType, handler Handler)
	Close() error
}

// InMemoryEventBus delivers events asynchronously through a worker pool.
type InMemoryEventBus struct {
	mu          sync.RWMutex
	subscribers map[shared.EventType][]Handler
	queue       chan shared.Event
	wg          sync.WaitGroup
	closed      bool
	logger      *slog.Logger
}

// NewInMemoryEventBus creates a bus with the given queue size and worker
// count.
func NewInMemoryEventBus(queueSize, workers int, logger *slog.Logger) *InMemoryEventBus {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}

	bus := &InMemoryEventBus{
		subscribers: make(map[shared.EventType][]Handler),
		queue:       make(chan shared.Event, queueSize),
		logger:      logger,
	}

	for i := 0; i < workers; i++ {
		bus.wg.Add(1)
		go bus.worker()
	}
	return bus
}

// Subscribe registers a handler for an event type.
func (b *InMemoryEventBus) Subscribe(eventType shared.EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish enqueues an event for asynchronous delivery.
func (b *InMemoryEventBus) Publish(ctx context.Context, event shared.Event) error {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return fmt.Errorf("messaging: bus is closed")
	}

	select {
	case b.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events and waits for the queue to drain.
func (b *InMemoryEventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	close(b.queue)
	b.wg.Wait()
	return nil
}

func (b *InMemoryEventBus) worker() {
	defer b.wg.Done()
	for event := range b.queue {
		b.dispatch(event)
	}
}

func (b *InMemoryEventBus) dispatch(event shared.Event) {
	b.mu.RLock()
	handlers := b.subscribers[event.EventType()]
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(context.Background(), event); err != nil {
			b.logger.Error("event handler failed",
				"event_type", string(event.EventType()),
				"aggregate_id", event.AggregateID(),
				"error", err,
			)
		}
	}
}
