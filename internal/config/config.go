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
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	ModelPath       string
	RegionRulesPath string

	// Environmental data fetch configuration.
	RainfallBaseURL  string
	ElevationBaseURL string
	FetchTimeout     time.Duration
	FetchEnabled     bool
	FetchCacheSize   int

	// Optional prediction audit stream.
	KafkaBrokers    []string
	KafkaAuditTopic string
	AuditEnabled    bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "7s")
	if err != nil {
		return nil, err
	}

	fetchEnabled := true
	if v := os.Getenv("FETCH_ENABLED"); v != "" {
		fetchEnabled = v == "true"
	}

	auditTopic := os.Getenv("KAFKA_AUDIT_TOPIC")
	auditEnabled := auditTopic != ""
	if v := os.Getenv("AUDIT_ENABLED"); v != "" {
		auditEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ModelPath:       envOrDefault("MODEL_PATH", "data/risk_model.json"),
		RegionRulesPath: envOrDefault("REGION_RULES_PATH", "data/region_rules.json"),

		RainfallBaseURL:  envOrDefault("RAINFALL_BASE_URL", "https://api.open-meteo.com"),
		ElevationBaseURL: envOrDefault("ELEVATION_BASE_URL", "https://api.open-meteo.com"),
		FetchTimeout:     fetchTimeout,
		FetchEnabled:     fetchEnabled,
		FetchCacheSize:   parseFetchCacheSize(),

		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "")),
		KafkaAuditTopic: auditTopic,
		AuditEnabled:    auditEnabled,
	}

	if cfg.ModelPath == "" {
		return nil, errors.New("MODEL_PATH is required")
	}
	if cfg.AuditEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("AUDIT_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.AuditEnabled && cfg.KafkaAuditTopic == "" {
		return nil, errors.New("AUDIT_ENABLED is true but KAFKA_AUDIT_TOPIC is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
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

func parseFetchCacheSize() int {
	if s := os.Getenv("FETCH_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
