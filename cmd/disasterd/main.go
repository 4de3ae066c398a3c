package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/radhe123-123/disaster-app/internal/adapter/httpapi"
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
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	extractor, err := extract.New()
	if err != nil {
		logger.Error("failed to load entity extraction model", "error", err)
		os.Exit(1)
	}

	geoClient := nominatim.NewClient(cfg.GeocodeBaseURL, cfg.GeocodeUserAgent, cfg.GeocodeTimeout, cfg.GeocodeMinInterval, metrics, logger)
	var geocoder domain.Geocoder = nominatim.NewCachedGeocoder(geoClient, cfg.GeocodeCacheSize, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	if err != nil {
		logger.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}

	// Publisher is feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED.
	var publisher pipeline.EventPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	search := newsapi.NewClient(cfg.NewsAPIKey, cfg.NewsAPIBaseURL, cfg.NewsAPITimeout, logger)
	collector := pipeline.NewCollector(search, logger, metrics)
	processor := pipeline.NewProcessor(extractor, geocoder, logger, metrics)
	p := pipeline.New(collector, processor, store, publisher, logger, metrics, cfg.LookbackDays)

	srv := httpapi.NewServer(cfg.HTTPAddr, store, store, p, p, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the collection loop.
	go func() {
		if err := p.Run(ctx, cfg.CollectInterval); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("collection loop error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error("mongodb close error", "error", err)
	}

	logger.Info("shutdown complete")
}
