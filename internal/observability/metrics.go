package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline.
type Metrics struct {
	ArticlesCollected *prometheus.CounterVec // labels: keyword
	CollectErrors     *prometheus.CounterVec // labels: keyword
	ArticlesProcessed prometheus.Counter
	ArticlesDiscarded prometheus.Counter
	ProcessErrors     prometheus.Counter
	EventsInserted    prometheus.Counter
	EventsDuplicate   prometheus.Counter
	PipelineRunning   prometheus.Gauge
	RunDuration       prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,not_found,error}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ArticlesCollected,
		m.CollectErrors,
		m.ArticlesProcessed,
		m.ArticlesDiscarded,
		m.ProcessErrors,
		m.EventsInserted,
		m.EventsDuplicate,
		m.PipelineRunning,
		m.RunDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ArticlesCollected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_monitor",
			Name:      "articles_collected_total",
			Help:      "Raw articles returned by the news search API, by keyword.",
		}, []string{"keyword"}),
		CollectErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_monitor",
			Name:      "collect_errors_total",
			Help:      "Failed per-keyword news searches.",
		}, []string{"keyword"}),
		ArticlesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_monitor",
			Name:      "articles_processed_total",
			Help:      "Raw articles that produced a disaster event.",
		}),
		ArticlesDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_monitor",
			Name:      "articles_discarded_total",
			Help:      "Articles dropped for having zero resolvable locations.",
		}),
		ProcessErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_monitor",
			Name:      "process_errors_total",
			Help:      "Articles skipped due to a processing failure.",
		}),
		EventsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_monitor",
			Name:      "events_inserted_total",
			Help:      "Disaster events newly inserted into the store.",
		}),
		EventsDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_monitor",
			Name:      "events_duplicate_total",
			Help:      "Events skipped because their URL was already stored.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_monitor",
			Name:      "pipeline_running",
			Help:      "1 while a collection run is in flight, 0 otherwise.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "disaster_monitor",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete collect-process-store cycle.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_monitor",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_monitor",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "disaster_monitor",
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}
