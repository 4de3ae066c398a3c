//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongodb "github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/radhe123-123/disaster-app/internal/adapter/mongostore"
	"github.com/radhe123-123/disaster-app/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startMongo launches a throwaway MongoDB container and returns its URI.
func startMongo(ctx context.Context, t *testing.T) string {
	t.Helper()

	ctr, err := tcmongodb.Run(ctx, "mongo:7")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "start mongodb container")

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err, "mongodb connection string")
	return uri
}

func connect(ctx context.Context, t *testing.T, uri string) *mongostore.Store {
	t.Helper()

	store, err := mongostore.Connect(ctx, uri, fmt.Sprintf("test_%d", time.Now().UnixNano()), discardLogger())
	require.NoError(t, err, "connect to mongodb")
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func testEvent(url, disasterType, publishedAt string) domain.DisasterEvent {
	return domain.DisasterEvent{
		Title:        "Major " + disasterType + " reported",
		Description:  "Damage reported across the region.",
		URL:          url,
		PublishedAt:  publishedAt,
		Source:       "Test Wire",
		DisasterType: disasterType,
		Locations: []domain.ResolvedLocation{
			{Name: "Tokyo", Latitude: 35.6768601, Longitude: 139.7638947, Address: "Tokyo, Japan"},
		},
	}
}

// TestStoreDeduplication verifies the insert-if-absent contract: re-storing
// the same batch inserts nothing, and a URL collision keeps the first event.
func TestStoreDeduplication(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store := connect(ctx, t, startMongo(ctx, t))

	batch := []domain.DisasterEvent{
		testEvent("https://news.example.com/a", "flood", "2024-04-26T10:00:00Z"),
		testEvent("https://news.example.com/b", "earthquake", "2024-04-26T11:00:00Z"),
	}

	inserted, err := store.Store(ctx, batch)
	require.NoError(t, err)
	require.Len(t, inserted, 2)
	for _, e := range inserted {
		assert.NotEmpty(t, e.AddedToDB, "inserted events carry added_to_db")
	}

	// Second run with the same URLs inserts nothing.
	inserted, err = store.Store(ctx, batch)
	require.NoError(t, err)
	assert.Empty(t, inserted)

	// A URL collision under a different keyword keeps the first record.
	rerun := testEvent("https://news.example.com/a", "hurricane", "2024-04-26T10:00:00Z")
	inserted, err = store.Store(ctx, []domain.DisasterEvent{rerun})
	require.NoError(t, err)
	assert.Empty(t, inserted)

	stored, err := store.Query(ctx, domain.EventFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, e := range stored {
		if e.URL == "https://news.example.com/a" {
			assert.Equal(t, "flood", e.DisasterType, "first insert wins on url collision")
		}
	}
}

// TestStoreQuery verifies filtering by type and date window, and the newest
// first ordering.
func TestStoreQuery(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store := connect(ctx, t, startMongo(ctx, t))

	_, err := store.Store(ctx, []domain.DisasterEvent{
		testEvent("https://news.example.com/1", "flood", "2024-04-20T10:00:00Z"),
		testEvent("https://news.example.com/2", "flood", "2024-04-26T10:00:00Z"),
		testEvent("https://news.example.com/3", "earthquake", "2024-04-23T10:00:00Z"),
	})
	require.NoError(t, err)

	all, err := store.Query(ctx, domain.EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "https://news.example.com/2", all[0].URL, "newest first")

	floods, err := store.Query(ctx, domain.EventFilter{DisasterType: "flood"})
	require.NoError(t, err)
	assert.Len(t, floods, 2)

	window, err := store.Query(ctx, domain.EventFilter{
		FromDate: "2024-04-22T00:00:00Z",
		ToDate:   "2024-04-25T00:00:00Z",
	})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "earthquake", window[0].DisasterType)
}

func TestStoreRecentEvents(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store := connect(ctx, t, startMongo(ctx, t))

	now := time.Now().UTC()
	_, err := store.Store(ctx, []domain.DisasterEvent{
		testEvent("https://news.example.com/recent", "tsunami", domain.Timestamp(now.AddDate(0, 0, -2))),
		testEvent("https://news.example.com/stale", "tsunami", domain.Timestamp(now.AddDate(0, 0, -30))),
	})
	require.NoError(t, err)

	recent, err := store.RecentEvents(ctx, 7)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "https://news.example.com/recent", recent[0].URL)
}

// TestUserRegistration covers the atomic insert-if-absent registration and
// lookup behavior.
func TestUserRegistration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store := connect(ctx, t, startMongo(ctx, t))

	id, err := store.RegisterUser(ctx, "alice", "alice@example.com", "hash-1", map[string]any{"alerts": true})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	// Same username again is rejected, regardless of other fields.
	_, err = store.RegisterUser(ctx, "alice", "other@example.com", "hash-2", nil)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	user, found, err := store.FindUser(ctx, "alice")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "hash-1", user.PasswordHash)
	assert.NotEmpty(t, user.CreatedAt)

	_, found, err = store.FindUser(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, found)
}
