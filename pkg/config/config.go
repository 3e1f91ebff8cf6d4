package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server (read-only results API)
	Port string
	Env  string // development, staging, production

	// Universe
	ListingCSV string // ASX listed companies CSV
	MaxTickers int    // 0 = no cap

	// Strategy set
	StrategyFile string // YAML strategy-set definition

	// Market data
	Quote QuoteConfig

	// Outputs
	OutDir string

	// Logging
	LogLevel  string
	LogFormat string
}

// QuoteConfig holds market-data client configuration.
type QuoteConfig struct {
	CacheEnabled bool
	CachePath    string
	RatePerSec   float64 // quote requests per second
	Burst        int
	Timeout      time.Duration
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8099"),
		Env:  getEnv("ENV", "development"),

		ListingCSV: getEnv("LISTING_CSV", "data/ASXListedCompanies.csv"),
		MaxTickers: getEnvAsInt("MAX_TICKERS", 0),

		StrategyFile: getEnv("STRATEGY_FILE", "config/strategies.yaml"),

		Quote: QuoteConfig{
			CacheEnabled: getEnvAsBool("QUOTE_CACHE_ENABLED", true),
			CachePath:    getEnv("QUOTE_CACHE_PATH", "outputs/quote_cache.json"),
			RatePerSec:   getEnvAsFloat("QUOTE_RATE_PER_SEC", 4.0),
			Burst:        getEnvAsInt("QUOTE_BURST", 1),
			Timeout:      getEnvAsDuration("QUOTE_TIMEOUT", "30s"),
		},

		OutDir: getEnv("OUT_DIR", "outputs"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.MaxTickers < 0 {
		return fmt.Errorf("MAX_TICKERS must not be negative")
	}

	if c.Quote.RatePerSec <= 0 {
		return fmt.Errorf("QUOTE_RATE_PER_SEC must be positive")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		fallback, _ := time.ParseDuration(defaultValue)
		return fallback
	}
	return value
}
