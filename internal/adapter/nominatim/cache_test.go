package nominatim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radhe123-123/disaster-app/internal/domain"
)

// countingGeocoder records calls and serves canned answers per name.
type countingGeocoder struct {
	calls   int
	results map[string]domain.ResolvedLocation
	err     error
}

func (m *countingGeocoder) Resolve(_ context.Context, name string) (domain.ResolvedLocation, bool, error) {
	m.calls++
	if m.err != nil {
		return domain.ResolvedLocation{}, false, m.err
	}
	loc, ok := m.results[name]
	return loc, ok, nil
}

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{results: map[string]domain.ResolvedLocation{
		"Tokyo": {Name: "Tokyo", Latitude: 35.7, Longitude: 139.7, Address: "Tokyo, Japan"},
	}}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	loc1, found, err := cached.Resolve(context.Background(), "Tokyo")
	require.NoError(t, err)
	require.True(t, found)

	loc2, found, err := cached.Resolve(context.Background(), "Tokyo")
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, loc1, loc2)
	assert.Equal(t, 1, inner.calls, "second lookup must come from the cache")
}

func TestCachedGeocoder_DifferentNamesMiss(t *testing.T) {
	inner := &countingGeocoder{results: map[string]domain.ResolvedLocation{
		"Tokyo": {Name: "Tokyo", Address: "Tokyo, Japan"},
		"Osaka": {Name: "Osaka", Address: "Osaka, Japan"},
	}}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _, _ = cached.Resolve(context.Background(), "Tokyo")
	_, _, _ = cached.Resolve(context.Background(), "Osaka")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_NotFoundNotCached(t *testing.T) {
	inner := &countingGeocoder{results: map[string]domain.ResolvedLocation{}}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, found, err := cached.Resolve(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, _ = cached.Resolve(context.Background(), "Nowhere")
	assert.Equal(t, 2, inner.calls, "not-found answers are retried, not cached")
}

func TestCachedGeocoder_ErrorPassesThrough(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("boom")}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, found, err := cached.Resolve(context.Background(), "Tokyo")
	require.Error(t, err)
	assert.False(t, found)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.ResolvedLocation{Name: "A"})
	c.put("b", domain.ResolvedLocation{Name: "B"})
	c.put("c", domain.ResolvedLocation{Name: "C"}) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	loc, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", loc.Name)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.ResolvedLocation{Name: "A"})
	c.put("b", domain.ResolvedLocation{Name: "B"})

	c.get("a")
	c.put("c", domain.ResolvedLocation{Name: "C"}) // evicts "b", not "a"

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok)
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.ResolvedLocation{Name: "A1"})
	c.put("a", domain.ResolvedLocation{Name: "A2"})

	loc, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, "A2", loc.Name)
}
