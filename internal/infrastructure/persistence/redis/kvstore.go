// Package redis provides the small key-value store used for crawl cursors
// and other operational state that does not belong in the relational model.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eklase-hub/schedule-hub/internal/domain/shared"
)

// Config holds Redis connection configuration.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr returns the host:port address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// keyPrefix namespaces every key written by the store.
const keyPrefix = "kvstore:"

// KVStore is a namespaced JSON key-value store on Redis.
type KVStore struct {
	client *redis.Client
}

// NewKVStore connects to Redis and verifies connectivity.
func NewKVStore(ctx context.Context, cfg Config) (*KVStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return &KVStore{client: client}, nil
}

// NewKVStoreWithClient wraps an existing client, for tests.
func NewKVStoreWithClient(client *redis.Client) *KVStore {
	return &KVStore{client: client}
}

// Client returns the underlying Redis client.
func (s *KVStore) Client() *redis.Client {
	return s.client
}

// Close closes the connection.
func (s *KVStore) Close() error {
	return s.client.Close()
}

// Set stores a JSON-marshaled value. A zero ttl means no expiration.
func (s *KVStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis: marshal value for %q: %w", key, err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %q: %w", key, err)
	}
	return nil
}

// Get reads and unmarshals a value. Returns shared.ErrNotFound for a
// missing key.
func (s *KVStore) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return shared.ErrNotFound
		}
		return fmt.Errorf("redis: get %q: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("redis: unmarshal value of %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis: delete %q: %w", key, err)
	}
	return nil
}

// ──────────────────────────────────────────────
// Domain helpers
// ──────────────────────────────────────────────

func lastGreetingKey(nickname string) string { return "greeting:last:" + nickname }
func crawlCursorKey(nickname string) string  { return "crawl:cursor:" + nickname }

// SetLastGreeting records when the student was last greeted.
func (s *KVStore) SetLastGreeting(ctx context.Context, nickname string, at time.Time) error {
	return s.Set(ctx, lastGreetingKey(nickname), at, 0)
}

// GetLastGreeting returns when the student was last greeted, or
// shared.ErrNotFound if never.
func (s *KVStore) GetLastGreeting(ctx context.Context, nickname string) (time.Time, error) {
	var at time.Time
	if err := s.Get(ctx, lastGreetingKey(nickname), &at); err != nil {
		return time.Time{}, err
	}
	return at, nil
}

// SetCrawlCursor records the most recently crawled week of a student.
func (s *KVStore) SetCrawlCursor(ctx context.Context, nickname, scheduleID string) error {
	return s.Set(ctx, crawlCursorKey(nickname), scheduleID, 0)
}

// GetCrawlCursor returns the most recently crawled week of a student, or
// shared.ErrNotFound if the student was never crawled.
func (s *KVStore) GetCrawlCursor(ctx context.Context, nickname string) (string, error) {
	var scheduleID string
	if err := s.Get(ctx, crawlCursorKey(nickname), &scheduleID); err != nil {
		return "", err
	}
	return scheduleID, nil
}
