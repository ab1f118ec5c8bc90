// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP API listens on (e.g. :8000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN; empty disables event/prediction persistence.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// KafkaBrokers is a comma-separated list of broker addresses (e.g. "localhost:9092").
	// Empty disables the Kafka push source.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// KafkaTopic is the topic carrying the event/alert envelopes (default churn-events).
	KafkaTopic string `mapstructure:"KAFKA_TOPIC"`
	// KafkaGroupID is the consumer group ID for the ingestion consumer.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
	// ShapURL is the model service's feature-importance endpoint; empty disables polling.
	ShapURL string `mapstructure:"SHAP_URL"`
	// RefreshInterval is how often history and feature importance are re-pulled (e.g. "30s").
	RefreshInterval string `mapstructure:"REFRESH_INTERVAL"`
	// HistoryCapacity bounds the alert-history window (default 500).
	HistoryCapacity int `mapstructure:"HISTORY_CAPACITY"`
	// LiveFeedCapacity bounds the live-feed window (default 100).
	LiveFeedCapacity int `mapstructure:"LIVE_FEED_CAPACITY"`
	// AlertThreshold is the churn probability above which a record is an alert (default 0.70).
	AlertThreshold float64 `mapstructure:"ALERT_THRESHOLD"`
	// OTLPEndpoint is the OTLP collector endpoint for traces/metrics; empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export (standard OTEL_EXPORTER_OTLP_INSECURE behavior).
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "churn-events")
	v.SetDefault("KAFKA_GROUP_ID", "churn-analytics")
	v.SetDefault("SHAP_URL", "")
	v.SetDefault("REFRESH_INTERVAL", "30s")
	v.SetDefault("HISTORY_CAPACITY", 500)
	v.SetDefault("LIVE_FEED_CAPACITY", 100)
	v.SetDefault("ALERT_THRESHOLD", 0.70)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.HistoryCapacity <= 0 {
		return nil, errors.New("config: HISTORY_CAPACITY must be positive")
	}
	if cfg.LiveFeedCapacity <= 0 {
		return nil, errors.New("config: LIVE_FEED_CAPACITY must be positive")
	}
	if cfg.AlertThreshold < 0 || cfg.AlertThreshold > 1 {
		return nil, errors.New("config: ALERT_THRESHOLD must be in [0, 1]")
	}

	return &cfg, nil
}

// RefreshEvery parses RefreshInterval as a time.Duration. Returns 30s if unset or invalid.
func (c *Config) RefreshEvery() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// KafkaBrokersList returns broker addresses from the comma-separated config.
// Used to decide if the Kafka push source is enabled (non-empty list) and to create the reader.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
