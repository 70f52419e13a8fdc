package messaging

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eklase-hub/schedule-hub/internal/domain/shared"
)

func TestInMemoryEventBus_DeliversToSubscribers(t *testing.T) {
	bus := NewInMemoryEventBus(16, 2, nil)

	var (
		mu       sync.Mutex
		received []string
	)
	bus.Subscribe(shared.EventNewMark, func(ctx context.Context, event shared.Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event.AggregateID())
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), shared.NewBaseEvent(shared.EventNewMark, "202446", nil)))
	require.NoError(t, bus.Publish(context.Background(), shared.NewBaseEvent(shared.EventNewMark, "202447", nil)))
	// No subscriber for this type; the event is dropped silently.
	require.NoError(t, bus.Publish(context.Background(), shared.NewBaseEvent(shared.EventCrawlError, "202448", nil)))

	// Close drains the queue before returning.
	require.NoError(t, bus.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"202446", "202447"}, received)
}

func TestInMemoryEventBus_PublishAfterCloseFails(t *testing.T) {
	bus := NewInMemoryEventBus(1, 1, nil)
	require.NoError(t, bus.Close())

	err := bus.Publish(context.Background(), shared.NewBaseEvent(shared.EventNewMark, "202446", nil))
	assert.Error(t, err)

	// Closing twice is a no-op.
	assert.NoError(t, bus.Close())
}
