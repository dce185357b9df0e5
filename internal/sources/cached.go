// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"

	"github.com/pdiddy/intel-engine/internal/cache"
	"github.com/pdiddy/intel-engine/pkg/types"
)

// Cached wraps an adapter with read-through/write-through caching
// (prd002-cache R2.1-R2.3). Only successful fetches are written; an error
// leaves the cache untouched so the next run retries the source.
type Cached struct {
	adapter Adapter
	cache   *cache.Cache
}

// WithCache wraps adapter. A nil cache returns the adapter unwrapped.
func WithCache(adapter Adapter, c *cache.Cache) Adapter {
	if c == nil {
		return adapter
	}
	return &Cached{adapter: adapter, cache: c}
}

// Name returns the wrapped adapter's name.
func (c *Cached) Name() string { return c.adapter.Name() }

// Domain returns the wrapped adapter's domain.
func (c *Cached) Domain() types.Domain { return c.adapter.Domain() }

// Fetch serves from the cache when possible, marking served points
// FromCache. On a miss it fetches live and caches the result on success.
func (c *Cached) Fetch(ctx context.Context, query Query) ([]types.DataPoint, error) {
	key := cache.Key(c.adapter.Name(), query.Terms())

	if cached, ok := c.cache.Get(key); ok {
		points := make([]types.DataPoint, len(cached))
		copy(points, cached)
		for i := range points {
			points[i].FromCache = true
		}
		return points, nil
	}

	points, err := c.adapter.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, points, 0)
	return points, nil
}
