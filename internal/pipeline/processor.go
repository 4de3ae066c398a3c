package pipeline

import (
	"context"
	"log/slog"

	"github.com/radhe123-123/disaster-app/internal/domain"
	"github.com/radhe123-123/disaster-app/internal/observability"
)

// Processor turns raw articles into normalized disaster events: extract
// candidate place names, resolve each through the geocoder, and keep only
// articles with at least one resolved location.
type Processor struct {
	extractor domain.Extractor
	geocoder  domain.Geocoder
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewProcessor creates a Processor.
func NewProcessor(extractor domain.Extractor, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *Processor {
	return &Processor{
		extractor: extractor,
		geocoder:  geocoder,
		logger:    logger,
		metrics:   metrics,
	}
}

// Process converts articles to events. One malformed article never aborts
// the batch: failures are logged and skipped. The error return is non-nil
// only when ctx ends, with the events completed so far; geocoding is
// rate-limited, so a long pass stays abortable between resolutions.
func (p *Processor) Process(ctx context.Context, articles []domain.RawArticle) ([]domain.DisasterEvent, error) {
	var events []domain.DisasterEvent
	for _, article := range articles {
		if ctx.Err() != nil {
			return events, ctx.Err()
		}

		event, ok, err := p.processOne(ctx, article)
		if err != nil {
			return events, err
		}
		if ok {
			events = append(events, event)
		}
	}
	return events, nil
}

// processOne handles a single article. ok reports whether the article
// produced an event; err is reserved for context cancellation.
func (p *Processor) processOne(ctx context.Context, article domain.RawArticle) (domain.DisasterEvent, bool, error) {
	names := p.extractor.Extract(article.AnalysisText())

	var locations []domain.ResolvedLocation
	for _, name := range names {
		if ctx.Err() != nil {
			return domain.DisasterEvent{}, false, ctx.Err()
		}

		loc, found, err := p.geocoder.Resolve(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return domain.DisasterEvent{}, false, ctx.Err()
			}
			// A failed lookup drops one place name, never the batch.
			p.logger.Warn("geocoding failed", "place", name, "url", article.URL, "error", err)
			continue
		}
		if !found {
			p.logger.Debug("no geocoder match", "place", name, "url", article.URL)
			continue
		}
		locations = append(locations, loc)
	}

	if len(locations) == 0 {
		p.metrics.ArticlesDiscarded.Inc()
		p.logger.Debug("discarding article with no resolvable locations", "url", article.URL)
		return domain.DisasterEvent{}, false, nil
	}

	event := domain.NewDisasterEvent(article, locations)
	if err := event.Validate(); err != nil {
		p.metrics.ProcessErrors.Inc()
		p.logger.Warn("skipping malformed article", "url", article.URL, "error", err)
		return domain.DisasterEvent{}, false, nil
	}

	p.metrics.ArticlesProcessed.Inc()
	return event, true, nil
}
