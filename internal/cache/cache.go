// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache provides the TTL key-value cache shared by source adapters.
// Implements: prd002-cache (R1-R3);
//
//	docs/ARCHITECTURE.md § Cache Layer.
//
// The cache is read-through/write-through: adapters check it before any
// network call and store only successful fetches. Failures are never cached
// (no negative caching), so a transient error is retried on the next run.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pdiddy/intel-engine/pkg/types"
)

const (
	defaultTTL             = 6 * time.Hour
	defaultCleanupInterval = 10 * time.Minute
)

// Cache is a concurrency-safe TTL cache of datapoint sets keyed by
// (source, query hash). Entries expire independently of run boundaries.
type Cache struct {
	c   *gocache.Cache
	ttl time.Duration
}

// New creates a Cache with the configured default TTL and sweep interval.
func New(cfg types.CacheConfig) *Cache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	cleanup := cfg.CleanupInterval
	if cleanup <= 0 {
		cleanup = defaultCleanupInterval
	}
	return &Cache{
		c:   gocache.New(ttl, cleanup),
		ttl: ttl,
	}
}

// Key builds the cache key for a source and query string. The query is
// hashed so arbitrarily long queries produce fixed-size keys.
func Key(source, query string) string {
	sum := sha256.Sum256([]byte(query))
	return source + ":" + hex.EncodeToString(sum[:16])
}

// Get returns the cached datapoints for key, or ok=false on a miss or an
// expired entry.
func (c *Cache) Get(key string) ([]types.DataPoint, bool) {
	v, found := c.c.Get(key)
	if !found {
		return nil, false
	}
	points, ok := v.([]types.DataPoint)
	if !ok {
		return nil, false
	}
	return points, true
}

// Set stores points under key with the given ttl. A non-positive ttl uses
// the cache default.
func (c *Cache) Set(key string, points []types.DataPoint, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	c.c.Set(key, points, ttl)
}

// Invalidate removes key from the cache. Removing an absent key is a no-op.
func (c *Cache) Invalidate(key string) {
	c.c.Delete(key)
}

// Len returns the number of entries, including not-yet-swept expired ones.
func (c *Cache) Len() int {
	return c.c.ItemCount()
}

// TTL returns the default entry lifetime.
func (c *Cache) TTL() time.Duration { return c.ttl }
