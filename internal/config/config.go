package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// StationConfig identifies one weather station to track.
type StationConfig struct {
	GeolocationID string
	Name          string
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	APIBaseURL     string
	ConsumerKey    string
	ConsumerSecret string
	APITimeout     time.Duration

	Stations        []StationConfig
	RefreshInterval time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka snapshot publishing configuration.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first if
// present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	apiTimeout, err := parseDuration("SRF_API_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parseDuration("REFRESH_INTERVAL", "60m")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	stations, err := parseStations(os.Getenv("SRF_STATIONS"))
	if err != nil {
		return nil, err
	}

	brokers := splitNonEmpty(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		APIBaseURL:     envOrDefault("SRF_API_BASE_URL", "https://api.srgssr.ch"),
		ConsumerKey:    os.Getenv("SRF_CONSUMER_KEY"),
		ConsumerSecret: os.Getenv("SRF_CONSUMER_SECRET"),
		APITimeout:     apiTimeout,

		Stations:        stations,
		RefreshInterval: refreshInterval,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers: brokers,
		KafkaTopic:   envOrDefault("KAFKA_SINK_TOPIC", "forecast-snapshots"),
		KafkaEnabled: kafkaEnabled,
	}

	if cfg.ConsumerKey == "" {
		return nil, errors.New("SRF_CONSUMER_KEY is required")
	}
	if cfg.ConsumerSecret == "" {
		return nil, errors.New("SRF_CONSUMER_SECRET is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

// parseStations parses SRF_STATIONS, a comma-separated list of
// "geolocationID" or "geolocationID=name" entries.
func parseStations(s string) ([]StationConfig, error) {
	var stations []StationConfig
	for _, entry := range splitNonEmpty(s) {
		id, name, found := strings.Cut(entry, "=")
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("SRF_STATIONS entry %q has an empty geolocation id", entry)
		}
		if !found || strings.TrimSpace(name) == "" {
			name = id
		}
		stations = append(stations, StationConfig{
			GeolocationID: id,
			Name:          strings.TrimSpace(name),
		})
	}
	return stations, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
