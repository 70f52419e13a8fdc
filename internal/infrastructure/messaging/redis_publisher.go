package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eklase-hub/schedule-hub/internal/domain/shared"
)

// channelPrefix namespaces the Redis pub/sub channels, one per event type.
const channelPrefix = "events:"

// RedisPublisher publishes domain events to Redis pub/sub, so the bot
// process and other consumers can react outside this process.
type RedisPublisher struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisPublisher creates a publisher on an existing Redis client.
func NewRedisPublisher(client *redis.Client, logger *slog.Logger) *RedisPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPublisher{client: client, logger: logger}
}

// envelope is the wire format of a published event.
type envelope struct {
	Type        shared.EventType       `json:"type"`
	AggregateID string                 `json:"aggregate_id"`
	OccurredAt  time.Time              `json:"occurred_at"`
	Payload     map[string]interface{} `json:"payload"`
}

// Publish serializes the event and publishes it to its type channel.
func (p *RedisPublisher) Publish(ctx context.Context, event shared.Event) error {
	data, err := json.Marshal(envelope{
		Type:        event.EventType(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt(),
		Payload:     event.Payload(),
	})
	if err != nil {
		return fmt.Errorf("messaging: marshal event: %w", err)
	}

	channel := channelPrefix + string(event.EventType())
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("messaging: publish to %s: %w", channel, err)
	}

	p.logger.Debug("event published",
		"channel", channel,
		"aggregate_id", event.AggregateID(),
	)
	return nil
}

// Subscribe is not supported; the publisher is write-only. Consumers
// subscribe with their own Redis clients.
func (p *RedisPublisher) Subscribe(eventType shared.EventType, handler Handler) {}

// Close is a no-op; the Redis client lifecycle belongs to its owner.
func (p *RedisPublisher) Close() error { return nil }
