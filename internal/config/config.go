package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// News search API.
	NewsAPIKey     string
	NewsAPIBaseURL string
	NewsAPITimeout time.Duration

	// Collection schedule.
	LookbackDays    int
	CollectInterval time.Duration

	// MongoDB event store.
	MongoURI      string
	MongoDatabase string

	// Geocoding.
	GeocodeBaseURL     string
	GeocodeUserAgent   string
	GeocodeTimeout     time.Duration
	GeocodeMinInterval time.Duration
	GeocodeCacheSize   int

	// Optional Kafka publisher for newly inserted events.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. NEWS_API_KEY and MONGODB_URI are required.
func Load() (*Config, error) {
	newsTimeout, err := parseDuration("NEWS_API_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	collectInterval, err := parseDuration("COLLECT_INTERVAL", "6h")
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := parseDuration("GEOCODE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	geocodeMinInterval, err := parseDuration("GEOCODE_MIN_INTERVAL", "1s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	lookbackDays, err := parseInt("COLLECT_LOOKBACK_DAYS", 2, 1, 30)
	if err != nil {
		return nil, err
	}
	geocodeCacheSize, err := parseInt("GEOCODE_CACHE_SIZE", 1000, 1, 1_000_000)
	if err != nil {
		return nil, err
	}

	kafkaBrokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(kafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		NewsAPIKey:     os.Getenv("NEWS_API_KEY"),
		NewsAPIBaseURL: envOrDefault("NEWS_API_BASE_URL", "https://newsapi.org/v2"),
		NewsAPITimeout: newsTimeout,

		LookbackDays:    lookbackDays,
		CollectInterval: collectInterval,

		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: envOrDefault("MONGODB_DATABASE", "disaster_monitoring"),

		GeocodeBaseURL:     envOrDefault("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeUserAgent:   envOrDefault("GEOCODE_USER_AGENT", "disaster_monitoring_app"),
		GeocodeTimeout:     geocodeTimeout,
		GeocodeMinInterval: geocodeMinInterval,
		GeocodeCacheSize:   geocodeCacheSize,

		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "disaster-events"),
		KafkaEnabled: kafkaEnabled,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.NewsAPIKey == "" {
		return nil, errors.New("NEWS_API_KEY is required")
	}
	if cfg.MongoURI == "" {
		return nil, errors.New("MONGODB_URI is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseInt(key string, def, minVal, maxVal int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minVal || n > maxVal {
		return 0, fmt.Errorf("invalid %s: %q (want %d-%d)", key, s, minVal, maxVal)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
