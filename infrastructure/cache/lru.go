package cache

import (
	"context"
	"time"

	"docspace/application/ports"

	lru "github.com/hashicorp/golang-lru/v2"
)

type lruItem struct {
	value     []byte
	expiresAt time.Time
}

// LRUCache is a bounded in-process cache. Expired entries are dropped on read.
type LRUCache struct {
	items *lru.Cache[string, lruItem]
	now   func() time.Time
}

// NewLRUCache creates a cache holding at most size entries.
func NewLRUCache(size int) (*LRUCache, error) {
	if size <= 0 {
		size = 128
	}
	items, err := lru.New[string, lruItem](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{items: items, now: time.Now}, nil
}

func (c *LRUCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	item, ok := c.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !item.expiresAt.IsZero() && c.now().After(item.expiresAt) {
		c.items.Remove(key)
		return nil, false, nil
	}
	return item.value, true, nil
}

// Set stores value. A ttl <= 0 keeps it until evicted.
func (c *LRUCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := lruItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expiresAt = c.now().Add(ttl)
	}
	c.items.Add(key, item)
	return nil
}

func (c *LRUCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.items.Remove(k)
	}
	return nil
}

// Len returns the number of entries, expired ones included.
func (c *LRUCache) Len() int { return c.items.Len() }

// Ping implements ports.HealthChecker
func (c *LRUCache) Ping(context.Context) error { return nil }

var (
	_ ports.Cache         = (*LRUCache)(nil)
	_ ports.HealthChecker = (*LRUCache)(nil)
)
