package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigAddr(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr())

	cfg.Host = "redis.internal"
	cfg.Port = 6380
	assert.Equal(t, "redis.internal:6380", cfg.Addr())
}

func TestKeyNamespaces(t *testing.T) {
	// Keys are per student; the store prefix is applied on top.
	assert.Equal(t, "greeting:last:alice", lastGreetingKey("alice"))
	assert.Equal(t, "crawl:cursor:alice", crawlCursorKey("alice"))
}
