package analysis

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache holds recent analysis results keyed by fingerprint. Entries
// expire after the configured TTL and the LRU bound caps memory.
// Values are stored and returned by value, so callers never share
// mutable state with the cache. Safe for concurrent use.
type Cache struct {
	lru *expirable.LRU[string, Result]
}

// NewCache creates a cache with the given capacity and entry TTL.
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = 512
	}
	return &Cache{lru: expirable.NewLRU[string, Result](size, nil, ttl)}
}

// Get returns a live entry for the fingerprint, marked as cache-served.
func (c *Cache) Get(fingerprint string) (Result, bool) {
	res, ok := c.lru.Get(fingerprint)
	if !ok {
		return Result{}, false
	}
	res.FromCache = true
	return res, true
}

// Add stores a successful result. Degraded results are never cached so
// a later request can retry once a provider recovers.
func (c *Cache) Add(fingerprint string, res Result) {
	if res.Failed {
		return
	}
	res.FromCache = false
	c.lru.Add(fingerprint, res)
}

// Len returns the number of live entries.
func (c *Cache) Len() int { return c.lru.Len() }
