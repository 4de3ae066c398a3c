// Package pipeline orchestrates the ingestion cycle: collect raw articles
// per disaster keyword, process them into geolocated events, store the new
// ones, and optionally publish the inserts to Kafka.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/radhe123-123/disaster-app/internal/domain"
	"github.com/radhe123-123/disaster-app/internal/observability"
)

// ErrRunInFlight is returned by RunOnce when a run is already executing.
var ErrRunInFlight = errors.New("a collection run is already in flight")

// EventStore persists events with URL dedup, returning the newly inserted
// subset.
type EventStore interface {
	Store(ctx context.Context, events []domain.DisasterEvent) ([]domain.DisasterEvent, error)
}

// EventPublisher forwards newly inserted events to downstream consumers.
type EventPublisher interface {
	PublishBatch(ctx context.Context, events []domain.DisasterEvent) error
}

// Pipeline runs collect-process-store cycles. Runs are single-flight: the
// interval ticker and the interactive refresh trigger share one guard.
type Pipeline struct {
	collector *Collector
	processor *Processor
	store     EventStore
	publisher EventPublisher // nil when Kafka is not configured
	logger    *slog.Logger
	metrics   *observability.Metrics

	lookbackDays int
	running      atomic.Bool
	ready        atomic.Bool
}

// New creates a Pipeline. publisher may be nil.
func New(collector *Collector, processor *Processor, store EventStore, publisher EventPublisher, logger *slog.Logger, metrics *observability.Metrics, lookbackDays int) *Pipeline {
	return &Pipeline{
		collector:    collector,
		processor:    processor,
		store:        store,
		publisher:    publisher,
		logger:       logger,
		metrics:      metrics,
		lookbackDays: lookbackDays,
	}
}

// CheckReadiness returns nil once at least one run has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no collection run has completed yet")
	}
	return nil
}

// Running reports whether a collection run is currently in flight.
func (p *Pipeline) Running() bool {
	return p.running.Load()
}

// RunOnce executes one collect-process-store cycle and returns the number of
// newly inserted events. A second caller while a run is in flight gets
// ErrRunInFlight immediately.
func (p *Pipeline) RunOnce(ctx context.Context) (int, error) {
	if !p.running.CompareAndSwap(false, true) {
		return 0, ErrRunInFlight
	}
	defer p.running.Store(false)

	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)
	start := time.Now()

	raw, err := p.collector.Collect(ctx, p.lookbackDays)
	if err != nil {
		return 0, err
	}

	events, err := p.processor.Process(ctx, raw)
	if err != nil {
		return 0, err
	}

	inserted, err := p.store.Store(ctx, events)
	if err != nil {
		return len(inserted), err
	}

	duplicates := len(events) - len(inserted)
	p.metrics.EventsInserted.Add(float64(len(inserted)))
	p.metrics.EventsDuplicate.Add(float64(duplicates))
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())

	if p.publisher != nil && len(inserted) > 0 {
		if err := p.publisher.PublishBatch(ctx, inserted); err != nil {
			// The events are safely stored; a publish failure only delays
			// downstream consumers.
			p.logger.Error("publish inserted events failed", "error", err, "events", len(inserted))
		}
	}

	p.ready.Store(true)
	p.logger.Info("collection run complete",
		"articles", len(raw),
		"events", len(events),
		"inserted", len(inserted),
		"duplicates", duplicates,
		"duration", time.Since(start),
	)
	return len(inserted), nil
}

// Run executes a cycle immediately and then on every interval tick until the
// context is cancelled.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) error {
	p.logger.Info("pipeline started", "interval", interval, "lookback_days", p.lookbackDays)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := p.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				p.logger.Info("pipeline stopping", "reason", ctx.Err())
				return nil
			}
			if !errors.Is(err, ErrRunInFlight) {
				p.logger.Error("collection run failed", "error", err)
			}
		}

		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
		}
	}
}
