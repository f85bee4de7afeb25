// internal/lookup/cached.go
//
// Caching decorator for canonical journal lookups.
//
// Context
// -------
// Journal titles change rarely, while the same handful of titles appears
// in almost every record a curator edits.  Cached remembers positive and
// negative answers for a TTL and collapses concurrent identical queries
// into one backend call via singleflight.
//
// Notes
// -----
//   - Errors are never cached; the next call retries the backend.
//   - Duplicate detection must not use this decorator: a duplicate can
//     appear at any moment.
package lookup

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yanizio/recordeditor/internal/cache"
	"github.com/yanizio/recordeditor/internal/metrics"
	"github.com/yanizio/recordeditor/internal/validation"
)

// Cached wraps a Lookup with an LRU and singleflight.
type Cached struct {
	inner validation.Lookup
	lru   *cache.LRU[[]string]
	sfg   singleflight.Group
}

// Compile-time assertion.
var _ validation.Lookup = (*Cached)(nil)

// NewCached returns a caching decorator holding up to size answers for ttl.
func NewCached(inner validation.Lookup, size int, ttl time.Duration) *Cached {
	return &Cached{inner: inner, lru: cache.New[[]string](size, ttl)}
}

// Matching serves q from cache or the wrapped Lookup.
func (c *Cached) Matching(ctx context.Context, q validation.Query) ([]string, error) {
	key := strings.Join([]string{q.Field, q.Property, q.Value}, "\x00")
	if ids, ok := c.lru.Get(key); ok {
		metrics.JournalCacheHitsTotal.Inc()
		return ids, nil
	}

	v, err, _ := c.sfg.Do(key, func() (any, error) {
		// Double-check after singleflight barrier.
		if ids, ok := c.lru.Get(key); ok {
			return ids, nil
		}
		ids, err := c.inner.Matching(ctx, q)
		if err != nil {
			return nil, err
		}
		c.lru.Add(key, ids)
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}
