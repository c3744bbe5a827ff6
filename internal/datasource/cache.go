package datasource

import (
	"context"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/tennis-edge/internal/metrics"
	"github.com/yourusername/tennis-edge/internal/models"
)

// OddsCache keeps the last parsed live-match list per source so repeated
// analysis cycles inside the TTL do not hit the provider.
type OddsCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

type cachedFetch struct {
	matches []models.LiveMatch
	diag    models.Diagnostics
}

// NewOddsCache creates a cache whose entries expire after ttl
func NewOddsCache(ttl time.Duration) *OddsCache {
	return &OddsCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get returns a copy of the cached list for key
func (c *OddsCache) Get(key string) ([]models.LiveMatch, models.Diagnostics, bool) {
	v, found := c.cache.Get(key)
	entry, ok := v.(cachedFetch)
	if !found || !ok {
		c.missCount.Add(1)
		c.updateMetrics()
		return nil, models.Diagnostics{}, false
	}
	c.hitCount.Add(1)
	c.updateMetrics()
	return append([]models.LiveMatch(nil), entry.matches...), entry.diag, true
}

// Set stores a copy of matches under key
func (c *OddsCache) Set(key string, matches []models.LiveMatch, diag models.Diagnostics) {
	c.cache.Set(key, cachedFetch{
		matches: append([]models.LiveMatch(nil), matches...),
		diag:    diag,
	}, c.ttl)
}

// Clear flushes the cache and resets counters
func (c *OddsCache) Clear() {
	c.cache.Flush()
	c.hitCount.Store(0)
	c.missCount.Store(0)
}

// Stats returns hit and miss counts
func (c *OddsCache) Stats() (hits, misses uint64) {
	return c.hitCount.Load(), c.missCount.Load()
}

// HitRatio returns hits/(hits+misses), zero before any lookup
func (c *OddsCache) HitRatio() float64 {
	hits, misses := c.Stats()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

func (c *OddsCache) updateMetrics() {
	metrics.UpdateOddsCacheHitRatio(c.HitRatio())
}

// CachedOddsSource serves FetchMatches from an OddsCache, delegating to the
// wrapped source on a miss. Failed fetches are not cached.
type CachedOddsSource struct {
	source OddsSource
	cache  *OddsCache
}

// NewCachedOddsSource wraps source with cache
func NewCachedOddsSource(source OddsSource, c *OddsCache) *CachedOddsSource {
	return &CachedOddsSource{source: source, cache: c}
}

// Name returns the wrapped source's name
func (s *CachedOddsSource) Name() string {
	return s.source.Name()
}

// FetchMatches returns cached matches when fresh
func (s *CachedOddsSource) FetchMatches(ctx context.Context) ([]models.LiveMatch, models.Diagnostics, error) {
	if matches, diag, ok := s.cache.Get(s.source.Name()); ok {
		return matches, diag, nil
	}
	matches, diag, err := s.source.FetchMatches(ctx)
	if err != nil {
		return nil, diag, err
	}
	s.cache.Set(s.source.Name(), matches, diag)
	return matches, diag, nil
}

// Invalidate drops the cached list so the next fetch hits the provider
func (s *CachedOddsSource) Invalidate() {
	s.cache.cache.Delete(s.source.Name())
}
