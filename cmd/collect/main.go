// Command collect runs a single collection cycle and exits. It is intended
// for cron-style scheduling where the long-running daemon is not wanted.
//
// Usage:
//
//	NEWS_API_KEY=... MONGODB_URI=... go run ./cmd/collect [-lookback-days 2]
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	kafkaadapter "github.com/radhe123-123/disaster-app/internal/adapter/kafka"
	"github.com/radhe123-123/disaster-app/internal/adapter/mongostore"
	"github.com/radhe123-123/disaster-app/internal/adapter/newsapi"
	"github.com/radhe123-123/disaster-app/internal/adapter/nominatim"
	"github.com/radhe123-123/disaster-app/internal/config"
	"github.com/radhe123-123/disaster-app/internal/domain"
	"github.com/radhe123-123/disaster-app/internal/extract"
	"github.com/radhe123-123/disaster-app/internal/observability"
	"github.com/radhe123-123/disaster-app/internal/pipeline"
)

func main() {
	lookback := flag.Int("lookback-days", 0, "days of articles to search; overrides COLLECT_LOOKBACK_DAYS")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *lookback > 0 {
		cfg.LookbackDays = *lookback
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	extractor, err := extract.New()
	if err != nil {
		logger.Error("failed to load entity extraction model", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	if err != nil {
		logger.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Error("mongodb close error", "error", err)
		}
	}()

	var publisher pipeline.EventPublisher
	if cfg.KafkaEnabled {
		kp := kafkaadapter.NewPublisher(cfg, logger)
		defer func() {
			if err := kp.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		publisher = kp
	}

	geoClient := nominatim.NewClient(cfg.GeocodeBaseURL, cfg.GeocodeUserAgent, cfg.GeocodeTimeout, cfg.GeocodeMinInterval, metrics, logger)
	var geocoder domain.Geocoder = nominatim.NewCachedGeocoder(geoClient, cfg.GeocodeCacheSize, metrics)

	search := newsapi.NewClient(cfg.NewsAPIKey, cfg.NewsAPIBaseURL, cfg.NewsAPITimeout, logger)
	collector := pipeline.NewCollector(search, logger, metrics)
	processor := pipeline.NewProcessor(extractor, geocoder, logger, metrics)
	p := pipeline.New(collector, processor, store, publisher, logger, metrics, cfg.LookbackDays)

	inserted, err := p.RunOnce(ctx)
	if err != nil {
		logger.Error("collection run failed", "error", err)
		os.Exit(1)
	}
	logger.Info("collection run complete", "inserted", inserted)
}
