// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for all databases (always absolute)
	Port     int
	LogLevel string
	DevMode  bool

	// CronSecret gates the manual price-analysis trigger endpoint.
	CronSecret string

	// Market price feed (third-party commodity price API)
	FeedURL      string
	FeedAPIKey   string
	FeedClientID string
	FeedTimeout  time.Duration

	AlertWindow  time.Duration // Dedup window for price alerts
	CronSchedule string        // Cron spec for the scheduled analysis run
	CronEnabled  bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("AGRIMARKET_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	// Always resolve to absolute path and ensure the directory exists
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:      absDataDir,
		Port:         getEnvAsInt("PORT", 8002),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DevMode:      getEnvAsBool("DEV_MODE", false),
		CronSecret:   getEnv("CRON_SECRET", ""),
		FeedURL:      getEnv("MARKET_FEED_URL", "https://api.commoditic.com/v1/commodities"),
		FeedAPIKey:   getEnv("MARKET_FEED_API_KEY", ""),
		FeedClientID: getEnv("MARKET_FEED_CLIENT_ID", ""),
		FeedTimeout:  time.Duration(getEnvAsInt("MARKET_FEED_TIMEOUT_SECONDS", 15)) * time.Second,
		AlertWindow:  time.Duration(getEnvAsInt("PRICE_ALERT_WINDOW_HOURS", 24)) * time.Hour,
		CronSchedule: getEnv("PRICE_ANALYSIS_SCHEDULE", "0 6 * * *"),
		CronEnabled:  getEnvAsBool("PRICE_ANALYSIS_CRON_ENABLED", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	// The trigger secret is the only gate on the analysis endpoint, so an
	// empty value would leave it open to anyone.
	if c.CronSecret == "" && !c.DevMode {
		return fmt.Errorf("CRON_SECRET is required outside dev mode")
	}

	if c.AlertWindow <= 0 {
		return fmt.Errorf("PRICE_ALERT_WINDOW_HOURS must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
