package metadata

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/hyperjump/marquee/internal/metrics"
	"github.com/hyperjump/marquee/internal/models"
)

// CachingResolver memoizes another Resolver for the lifetime of a session. Degraded
// records are cached too, so a repeat within the session does not hit the provider;
// a new session starts empty. Concurrent misses for the same key share one call.
type CachingResolver struct {
	next  Resolver
	cache *Cache
	group singleflight.Group
}

// NewCachingResolver wraps next with cache.
func NewCachingResolver(next Resolver, cache *Cache) *CachingResolver {
	return &CachingResolver{next: next, cache: cache}
}

// Resolve returns the cached record for (externalID, title, year) or resolves and caches it.
func (c *CachingResolver) Resolve(ctx context.Context, externalID, title string, year int) models.MetadataRecord {
	key := Key{ExternalID: externalID, Title: title, Year: year}
	if rec, ok := c.cache.Get(key); ok {
		metrics.CacheHits.Inc()
		return rec
	}
	metrics.CacheMisses.Inc()

	for {
		v, _, _ := c.group.Do(flightKey(key), func() (any, error) {
			if rec, ok := c.cache.Get(key); ok {
				return flight{rec: rec}, nil
			}
			rec := c.next.Resolve(ctx, externalID, title, year)
			// A record degraded by the caller going away says nothing about the provider.
			if ctx.Err() != nil {
				return flight{rec: rec, abandoned: true}, nil
			}
			c.cache.Put(key, rec)
			return flight{rec: rec}, nil
		})
		res := v.(flight)
		// The call was led by a caller that went away; a live caller resolves again.
		if res.abandoned && ctx.Err() == nil {
			continue
		}
		return res.rec
	}
}

// flight is the shared outcome of one upstream call.
type flight struct {
	rec       models.MetadataRecord
	abandoned bool
}

// Cache returns the underlying cache.
func (c *CachingResolver) Cache() *Cache {
	return c.cache
}

func flightKey(k Key) string {
	return fmt.Sprintf("%s\x00%s\x00%d", k.ExternalID, k.Title, k.Year)
}
