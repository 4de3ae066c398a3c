package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/radhe123-123/disaster-app/internal/domain"
	"github.com/radhe123-123/disaster-app/internal/observability"
)

// SearchService issues one keyword query against the news search API.
type SearchService interface {
	Search(ctx context.Context, keyword string, from, to time.Time) ([]domain.RawArticle, error)
}

// Collector gathers raw articles for every keyword in the disaster
// vocabulary over a trailing window.
type Collector struct {
	search  SearchService
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewCollector creates a Collector over the given search service.
func NewCollector(search SearchService, logger *slog.Logger, metrics *observability.Metrics) *Collector {
	return &Collector{
		search:  search,
		logger:  logger,
		metrics: metrics,
	}
}

// Collect queries each disaster keyword for [now-lookbackDays, now] and tags
// every result with the keyword that retrieved it. Per-keyword failures are
// logged and skipped; partial results are expected. No deduplication happens
// here: an article matching two keywords appears twice, tagged differently,
// and the store's URL dedup decides which tag survives. The error return is
// non-nil only when ctx ends, with the articles gathered so far.
func (c *Collector) Collect(ctx context.Context, lookbackDays int) ([]domain.RawArticle, error) {
	now := domain.Clock().Now()
	from := now.AddDate(0, 0, -lookbackDays)

	var all []domain.RawArticle
	for _, keyword := range domain.DisasterKeywords {
		if ctx.Err() != nil {
			return all, ctx.Err()
		}

		articles, err := c.search.Search(ctx, keyword, from, now)
		if err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			c.logger.Warn("news search failed", "keyword", keyword, "error", err)
			c.metrics.CollectErrors.WithLabelValues(keyword).Inc()
			continue
		}

		for i := range articles {
			articles[i].DisasterType = keyword
		}
		all = append(all, articles...)

		c.metrics.ArticlesCollected.WithLabelValues(keyword).Add(float64(len(articles)))
		c.logger.Debug("keyword collected", "keyword", keyword, "articles", len(articles))
	}

	c.logger.Info("collection complete", "articles", len(all), "lookback_days", lookbackDays)
	return all, nil
}
