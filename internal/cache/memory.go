package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache is an in-process cache with TTL expiry and least-recently-used
// eviction once MaxEntries is reached.
type MemoryCache struct {
	mu         sync.Mutex
	items      map[string]*cacheItem
	defaultTTL time.Duration
	maxEntries int
	now        func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
	closed atomic.Bool
}

type cacheItem struct {
	value      []byte
	expiresAt  time.Time
	accessedAt time.Time
}

func (i *cacheItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts Options) *MemoryCache {
	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultOptions().MaxEntries
	}

	return &MemoryCache{
		items:      make(map[string]*cacheItem),
		defaultTTL: opts.DefaultTTL,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	item, ok := c.items[key]
	if !ok || item.expired(now) {
		if ok {
			delete(c.items, key)
		}
		c.misses.Add(1)

		return nil, ErrKeyNotFound
	}
	c.hits.Add(1)
	item.accessedAt = now

	return append([]byte(nil), item.value...), nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxEntries {
		c.evictLocked(now)
	}
	item := &cacheItem{value: append([]byte(nil), value...), accessedAt: now}
	if ttl > 0 {
		item.expiresAt = now.Add(ttl)
	}
	c.items[key] = item

	return nil
}

// evictLocked drops expired entries, or the least recently used one when
// none has expired.
func (c *MemoryCache) evictLocked(now time.Time) {
	var (
		oldestKey string
		oldest    time.Time
		dropped   bool
	)
	for k, it := range c.items {
		if it.expired(now) {
			delete(c.items, k)
			dropped = true

			continue
		}
		if oldestKey == "" || it.accessedAt.Before(oldest) || (it.accessedAt.Equal(oldest) && k < oldestKey) {
			oldestKey, oldest = k, it.accessedAt
		}
	}
	if !dropped && oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()

	return nil
}

func (c *MemoryCache) DeletePrefix(_ context.Context, prefix string) (int64, error) {
	if c.closed.Load() {
		return 0, ErrCacheClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
			n++
		}
	}

	return n, nil
}

func (c *MemoryCache) Stats(_ context.Context) (Stats, error) {
	c.mu.Lock()
	keys := int64(len(c.items))
	c.mu.Unlock()
	hits, misses := c.hits.Load(), c.misses.Load()

	return Stats{Backend: BackendMemory, Keys: keys, Hits: hits, Misses: misses, HitRate: hitRate(hits, misses)}, nil
}

func (c *MemoryCache) Close() error {
	c.closed.Store(true)
	c.mu.Lock()
	c.items = make(map[string]*cacheItem)
	c.mu.Unlock()

	return nil
}
