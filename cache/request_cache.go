// File: /cache/request_cache.go
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RequestCache remembers "sender recently requested receiver" so a repeat
// request from the same sender inside the window can be throttled.
// Best-effort only: a lost entry just lets one extra request through.
type RequestCache interface {
	GetRecentSender(receiverID string) (string, bool)
	MarkRequested(receiverID, senderID string, ttl time.Duration)
}

const requestKeyPrefix = "friend_request_"

// RedisRequestCache stores entries in Redis with SETEX-style expiry.
type RedisRequestCache struct {
	client *redis.Client
}

func NewRedisRequestCache(addr string) *RedisRequestCache {
	return &RedisRequestCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (c *RedisRequestCache) GetRecentSender(receiverID string) (string, bool) {
	senderID, err := c.client.Get(context.Background(), requestKeyPrefix+receiverID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		logrus.WithError(err).Warn("request cache read failed, treating as miss")
		return "", false
	}
	return senderID, true
}

func (c *RedisRequestCache) MarkRequested(receiverID, senderID string, ttl time.Duration) {
	if err := c.client.Set(context.Background(), requestKeyPrefix+receiverID, senderID, ttl).Err(); err != nil {
		logrus.WithError(err).Warn("request cache write failed")
	}
}

func (c *RedisRequestCache) Close() error {
	return c.client.Close()
}

type memoryEntry struct {
	senderID  string
	expiresAt time.Time
}

// MemoryRequestCache is an in-process RequestCache for development and
// tests. Expired entries are ignored on read and swept periodically.
type MemoryRequestCache struct {
	entries map[string]memoryEntry
	mutex   sync.RWMutex
}

func NewMemoryRequestCache() *MemoryRequestCache {
	c := &MemoryRequestCache{
		entries: make(map[string]memoryEntry),
	}

	go c.cleanupExpired()

	return c
}

func (c *MemoryRequestCache) GetRecentSender(receiverID string) (string, bool) {
	c.mutex.RLock()
	entry, exists := c.entries[receiverID]
	c.mutex.RUnlock()

	if !exists || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.senderID, true
}

func (c *MemoryRequestCache) MarkRequested(receiverID, senderID string, ttl time.Duration) {
	c.mutex.Lock()
	c.entries[receiverID] = memoryEntry{
		senderID:  senderID,
		expiresAt: time.Now().Add(ttl),
	}
	c.mutex.Unlock()
}

func (c *MemoryRequestCache) cleanupExpired() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mutex.Lock()
		for receiverID, entry := range c.entries {
			if now.After(entry.expiresAt) {
				delete(c.entries, receiverID)
			}
		}
		c.mutex.Unlock()
	}
}
