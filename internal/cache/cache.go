package cache

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL        = 60 * time.Minute
	DefaultMaxEntries = 100
	statsKeyLimit     = 10
)

// Keys used by the dashboard
const KeyNFLData = "nfl-data"

func KeyStandings(configHash string) string { return "standings-" + configHash }

func KeyAchievements(configHash string, week int) string {
	return fmt.Sprintf("achievements-%s-%d", configHash, week)
}

func KeyNarratives(week int) string { return fmt.Sprintf("narratives-%d", week) }

// ConfigHash returns a short stable identifier for a JSON-serializable configuration
func ConfigHash(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "unknown"
	}
	sum := sha256.Sum256(data)
	return base64.RawURLEncoding.EncodeToString(sum[:])[:8]
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is an in-memory key/value store with per-entry expiry.
//
// Expired entries are dropped on read and swept whenever a write pushes the entry count past
// MaxEntries. A Cache is safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	defaultTTL time.Duration
	maxEntries int
	now        func() time.Time
	logger     *logrus.Logger
	loads      singleflight.Group
}

// Option customizes a Cache
type Option func(*Cache)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithMaxEntries sets the size that triggers an expiry sweep
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// New creates a cache. A non-positive defaultTTL uses DefaultTTL.
func New(defaultTTL time.Duration, logger *logrus.Logger, opts ...Option) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	c := &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set stores value under key. A non-positive ttl uses the cache default.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = entry{value: value, expiresAt: now.Add(ttl)}
	if len(c.entries) > c.maxEntries {
		c.sweepLocked(now)
	}
}

// Get returns the live value for key
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Has reports whether key holds a live value
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	return ok && !c.now().After(e.expiresAt)
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

func (c *Cache) sweepLocked(now time.Time) {
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Stats describes the cache contents
type Stats struct {
	Total   int      `json:"total"`
	Active  int      `json:"active"`
	Expired int      `json:"expired"`
	Keys    []string `json:"keys"`
}

// Stats counts live and expired entries and lists up to ten keys in sorted order
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	stats := Stats{Total: len(c.entries), Keys: make([]string, 0, len(c.entries))}
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			stats.Expired++
		} else {
			stats.Active++
		}
		stats.Keys = append(stats.Keys, key)
	}
	sort.Strings(stats.Keys)
	if len(stats.Keys) > statsKeyLimit {
		stats.Keys = stats.Keys[:statsKeyLimit]
	}
	return stats
}

// GetOrLoad returns the cached value for key, calling load and caching its result on a miss.
// Concurrent misses on the same key share one load. Load errors are returned and nothing is cached.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			c.logger.WithField("key", key).Debug("Cache HIT")
			return typed, nil
		}
	}

	c.logger.WithField("key", key).Debug("Cache MISS")

	v, err, shared := c.loads.Do(key, func() (interface{}, error) {
		// a load that finished between the miss above and this flight already cached the value
		if v, ok := c.Get(key); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, value, ttl)
		return value, nil
	})
	if err != nil {
		return zero, err
	}
	if shared {
		c.logger.WithField("key", key).Debug("Cache load shared")
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache key %s holds %T", key, v)
	}
	return typed, nil
}
