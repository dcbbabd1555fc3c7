// Package cache is a best-effort read cache over redis. Every method is safe
// to call when redis is absent or down: misses are reported, errors are
// logged and swallowed, and callers always fall back to the store.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Well-known cache keys. Invalidate accepts glob patterns, so dependent
// entries can share a prefix and be dropped together.
const (
	KeyProducts  = "products:all"
	KeyLocations = "locations:all"
	KeyInventory = "inventory:all"
)

type Cache struct {
	client *redis.Client
}

// New connects using REDIS_URL. When the variable is unset the returned
// Cache is a no-op and the process runs without caching.
func New(ctx context.Context) *Cache {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		log.Println("cache: REDIS_URL not set, caching disabled")
		return &Cache{}
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("cache: invalid REDIS_URL, caching disabled: %v", err)
		return &Cache{}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("cache: redis unreachable, caching disabled: %v", err)
		return &Cache{}
	}
	return &Cache{client: client}
}

// NewWithClient wraps an existing client. Used by tests.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON reads key and unmarshals it into dest. Returns true only on a
// clean hit; any redis or decode problem counts as a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	if !c.enabled() {
		return false
	}

	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache: get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Printf("cache: decode %s: %v", key, err)
		return false
	}
	return true
}

// SetJSON stores value under key with the given TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if !c.enabled() {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache: encode %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
}

// Invalidate deletes the given keys. A key containing '*' is expanded with
// KEYS before deletion.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.enabled() {
		return
	}

	for _, key := range keys {
		if strings.Contains(key, "*") {
			matches, err := c.client.Keys(ctx, key).Result()
			if err != nil {
				log.Printf("cache: expand %s: %v", key, err)
				continue
			}
			if len(matches) == 0 {
				continue
			}
			if err := c.client.Del(ctx, matches...).Err(); err != nil {
				log.Printf("cache: invalidate %s: %v", key, err)
			}
			continue
		}
		if err := c.client.Del(ctx, key).Err(); err != nil {
			log.Printf("cache: invalidate %s: %v", key, err)
		}
	}
}

// Close releases the underlying connection, if any.
func (c *Cache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.client.Close()
}
