// Package cache provides the time-expiring price cache owned by each price adapter.
package cache

import (
	"sync"
	"time"
)

// CurrentMarker is the as-of marker used for "current price" entries.
const CurrentMarker = "current"

// Key identifies a cached price: a ticker and either CurrentMarker or a YYYY-MM-DD date.
type Key struct {
	Ticker string
	AsOf   string
}

// CurrentKey returns the key for the current price of a ticker.
func CurrentKey(ticker string) Key {
	return Key{Ticker: ticker, AsOf: CurrentMarker}
}

// DateKey returns the key for the close price of a ticker on a date.
func DateKey(ticker, date string) Key {
	return Key{Ticker: ticker, AsOf: date}
}

// IsCurrent reports whether the key refers to a current price.
func (k Key) IsCurrent() bool {
	return k.AsOf == CurrentMarker
}

// Config holds the expiry policy of a PriceCache.
// MaxEntries of 0 leaves the cache unbounded.
type Config struct {
	CurrentTTL    time.Duration
	HistoricalTTL time.Duration
	MaxEntries    int
}

type entry struct {
	price     float64
	fetchedAt time.Time
}

// PriceCache is a mutex-guarded map of prices that expire after a TTL chosen by key kind.
// Entries are only removed on expiry or, when MaxEntries is set, to make room for new ones.
type PriceCache struct {
	mu      sync.Mutex
	cfg     Config
	entries map[Key]entry
	now     func() time.Time
}

// New creates an empty PriceCache.
func New(cfg Config) *PriceCache {
	return &PriceCache{
		cfg:     cfg,
		entries: make(map[Key]entry),
		now:     time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (c *PriceCache) WithClock(now func() time.Time) *PriceCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Get returns the cached price when present and still fresh.
func (c *PriceCache) Get(key Key) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	if !c.fresh(key, e, c.now()) {
		delete(c.entries, key)
		return 0, false
	}
	return e.price, true
}

// Set stores a price fetched now.
func (c *PriceCache) Set(key Key, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && c.cfg.MaxEntries > 0 && len(c.entries) >= c.cfg.MaxEntries {
		c.evict(now)
	}
	c.entries[key] = entry{price: price, fetchedAt: now}
}

// Len returns the number of stored entries, fresh or not.
func (c *PriceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *PriceCache) ttl(key Key) time.Duration {
	if key.IsCurrent() {
		return c.cfg.CurrentTTL
	}
	return c.cfg.HistoricalTTL
}

func (c *PriceCache) fresh(key Key, e entry, now time.Time) bool {
	return now.Sub(e.fetchedAt) < c.ttl(key)
}

// evict drops expired entries and, if still full, the oldest one. Caller holds mu.
func (c *PriceCache) evict(now time.Time) {
	for k, e := range c.entries {
		if !c.fresh(k, e, now) {
			delete(c.entries, k)
		}
	}
	if len(c.entries) < c.cfg.MaxEntries {
		return
	}

	var oldestKey Key
	var oldest time.Time
	first := true
	for k, e := range c.entries {
		if first || e.fetchedAt.Before(oldest) {
			oldestKey, oldest, first = k, e.fetchedAt, false
		}
	}
	delete(c.entries, oldestKey)
}
