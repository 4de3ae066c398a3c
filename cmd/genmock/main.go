// Command genmock generates deterministic mock data fixtures: a news search
// response per disaster keyword, shaped like the real API envelope, and the
// stored events that processing those articles would produce. It uses the
// actual domain package so the fixtures track real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -articles-out data/mock/articles \
//	  -events-out data/mock/disaster_events.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/radhe123-123/disaster-app/internal/domain"
)

var baseDate = time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC)

// mockPlace is a geocodable location seeded into generated articles.
type mockPlace struct {
	name    string
	lat     float64
	lon     float64
	address string
}

var places = []mockPlace{
	{name: "San Francisco", lat: 37.7790262, lon: -122.419906, address: "San Francisco, California, United States"},
	{name: "Tokyo", lat: 35.6768601, lon: 139.7638947, address: "Tokyo, Japan"},
	{name: "Jakarta", lat: -6.1753942, lon: 106.827183, address: "Jakarta, Indonesia"},
	{name: "Mexico City", lat: 19.4326296, lon: -99.1331785, address: "Mexico City, Mexico"},
	{name: "Athens", lat: 37.9839412, lon: 23.7283052, address: "Athens, Greece"},
}

// responseEnvelope mirrors the news search API response body.
type responseEnvelope struct {
	Status       string              `json:"status"`
	TotalResults int                 `json:"totalResults"`
	Articles     []domain.RawArticle `json:"articles"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	articlesOut := flag.String("articles-out", "", "output directory for per-keyword article response fixtures")
	eventsOut := flag.String("events-out", "", "output path for the stored events fixture")
	perKeyword := flag.Int("per-keyword", 3, "articles to generate per disaster keyword")
	flag.Parse()

	if *articlesOut == "" || *eventsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -articles-out, -events-out")
	}

	// Fix the clock so added_to_db timestamps are reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	var events []domain.DisasterEvent //nolint:prealloc // size depends on flags

	for _, keyword := range domain.DisasterKeywords {
		articles := generateArticles(keyword, *perKeyword)

		env := responseEnvelope{
			Status:       "ok",
			TotalResults: len(articles),
			Articles:     articles,
		}
		path := filepath.Join(*articlesOut, keyword+".json")
		if err := writeJSON(path, env); err != nil {
			return fmt.Errorf("writing %s fixture: %w", keyword, err)
		}
		log.Printf("%s: %d articles", keyword, len(articles))

		// Run the actual processing assembly with pre-resolved locations.
		for i, a := range articles {
			place := places[i%len(places)]
			event := domain.NewDisasterEvent(a, []domain.ResolvedLocation{{
				Name:      place.name,
				Latitude:  place.lat,
				Longitude: place.lon,
				Address:   place.address,
			}})
			event.AddedToDB = domain.Now()
			if err := event.Validate(); err != nil {
				return fmt.Errorf("generated invalid event for %s: %w", keyword, err)
			}
			events = append(events, event)
		}
	}

	if err := writeJSON(*eventsOut, events); err != nil {
		return fmt.Errorf("writing events fixture: %w", err)
	}
	log.Printf("wrote %d events: %s", len(events), *eventsOut)

	return nil
}

func generateArticles(keyword string, count int) []domain.RawArticle {
	articles := make([]domain.RawArticle, 0, count)
	for i := 0; i < count; i++ {
		place := places[i%len(places)]
		publishedAt := domain.Timestamp(baseDate.Add(time.Duration(i) * time.Hour))
		articles = append(articles, domain.RawArticle{
			Source:       domain.ArticleSource{ID: "mock-wire", Name: "Mock Wire"},
			Author:       "Staff Reporter",
			Title:        fmt.Sprintf("Major %s strikes %s", keyword, place.name),
			Description:  fmt.Sprintf("Authorities in %s report damage after a %s on April 26.", place.name, keyword),
			Content:      fmt.Sprintf("Emergency services in %s responded to a %s.", place.name, keyword),
			URL:          fmt.Sprintf("https://news.example.com/%s/%d", keyword, i),
			URLToImage:   fmt.Sprintf("https://news.example.com/%s/%d.jpg", keyword, i),
			PublishedAt:  publishedAt,
			DisasterType: keyword,
		})
	}
	return articles
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
