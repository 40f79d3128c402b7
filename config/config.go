// Package config loads start-up settings for the RAP builder from the
// environment (optionally seeded by a .env file).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultParserURL is the hosted estimate parsing service.
const DefaultParserURL = "https://web-production-e5f81.up.railway.app"

// Config holds all application configuration.
type Config struct {
	ParserURL     string
	DedupPolicy   string
	PhoneRegion   string
	ParseTimeout  time.Duration
	ExportTimeout time.Duration
	SessionTTL    time.Duration
	LogLevel      string
}

// Load reads configuration from environment variables. A missing .env file
// is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	parseTimeout, err := getDuration("RAP_PARSE_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, err
	}
	exportTimeout, err := getDuration("RAP_EXPORT_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := getDuration("RAP_SESSION_TTL", 72*time.Hour)
	if err != nil {
		return nil, err
	}

	policy := strings.ToLower(getEnv("RAP_DEDUP_POLICY", "line"))
	if policy != "line" && policy != "category" {
		return nil, fmt.Errorf("RAP_DEDUP_POLICY must be \"line\" or \"category\", got %q", policy)
	}

	return &Config{
		ParserURL:     strings.TrimRight(getEnv("RAP_PARSER_URL", DefaultParserURL), "/"),
		DedupPolicy:   policy,
		PhoneRegion:   strings.ToUpper(getEnv("RAP_PHONE_REGION", "US")),
		ParseTimeout:  parseTimeout,
		ExportTimeout: exportTimeout,
		SessionTTL:    sessionTTL,
		LogLevel:      getEnv("RAP_LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
