package nominatim

import (
	"container/list"
	"context"
	"sync"

	"github.com/radhe123-123/disaster-app/internal/domain"
	"github.com/radhe123-123/disaster-app/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache keyed on the
// place name. News coverage of one disaster repeats the same handful of
// place names across many articles, so the hit rate is high and every hit
// saves a rate-limited second.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) Resolve(ctx context.Context, name string) (domain.ResolvedLocation, bool, error) {
	if loc, ok := c.cache.get(name); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return loc, true, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	loc, found, err := c.inner.Resolve(ctx, name)
	if err != nil {
		return loc, found, err
	}
	// Only cache matches, so transient "not found" responses can be retried.
	if found {
		c.cache.put(name, loc)
	}
	return loc, found, nil
}

// lruCache is a small thread-safe LRU for resolved locations.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	ll         *list.List // most-recent at front
	items      map[string]*list.Element
}

type cacheEntry struct {
	key string
	loc domain.ResolvedLocation
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		ll:         list.New(),
		items:      make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) (domain.ResolvedLocation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return domain.ResolvedLocation{}, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(cacheEntry).loc, true
}

func (c *lruCache) put(key string, loc domain.ResolvedLocation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value = cacheEntry{key: key, loc: loc}
		c.ll.MoveToFront(el)
		return
	}

	c.items[key] = c.ll.PushFront(cacheEntry{key: key, loc: loc})

	if c.ll.Len() > c.maxEntries {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(cacheEntry).key)
		}
	}
}
