// Package cache stores distance matrices between solves. Backends are an
// in-process LRU and Redis; MatrixCache layers keying, encoding and
// request coalescing on top of either.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/streetroute/internal/config"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

var (
	// ErrKeyNotFound is returned when a key is absent or expired.
	ErrKeyNotFound = errors.New("cache: key not found")

	// ErrCacheClosed is returned after Close.
	ErrCacheClosed = errors.New("cache: closed")

	// ErrUnknownBackend is returned by New for an unsupported driver.
	ErrUnknownBackend = errors.New("cache: unknown backend")
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key starting with prefix and reports how
	// many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int64, error)

	Stats(ctx context.Context) (Stats, error)
	Close() error
}

// Stats summarises a backend.
type Stats struct {
	Backend string  `json:"backend"`
	Keys    int64   `json:"keys"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// Options configures a backend.
type Options struct {
	Backend    string
	DefaultTTL time.Duration

	MaxEntries int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
}

// DefaultOptions returns an in-memory cache of 256 entries with a ten
// minute TTL.
func DefaultOptions() Options {
	return Options{
		Backend:       BackendMemory,
		DefaultTTL:    10 * time.Minute,
		MaxEntries:    256,
		RedisAddr:     "localhost:6379",
		RedisPoolSize: 10,
	}
}

// FromConfig maps the cache section onto Options.
func FromConfig(cfg config.CacheConfig) Options {
	opts := DefaultOptions()
	opts.Backend = cfg.Driver
	if cfg.TTL > 0 {
		opts.DefaultTTL = cfg.TTL
	}
	if cfg.MaxEntries > 0 {
		opts.MaxEntries = cfg.MaxEntries
	}
	opts.RedisAddr = cfg.Addr
	opts.RedisPassword = cfg.Password
	opts.RedisDB = cfg.DB

	return opts
}

// New creates the backend named by opts.Backend. The redis backend pings
// the server before returning.
func New(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryCache(opts), nil
	case BackendRedis:
		return NewRedisCache(ctx, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

func hitRate(hits, misses int64) float64 {
	if total := hits + misses; total > 0 {
		return float64(hits) / float64(total)
	}

	return 0
}
