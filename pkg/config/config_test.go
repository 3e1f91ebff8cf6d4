package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8099" {
		t.Errorf("Expected Port to be 8099, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Quote.RatePerSec != 4.0 {
		t.Errorf("Expected Quote.RatePerSec to be 4.0, got %f", cfg.Quote.RatePerSec)
	}

	if cfg.OutDir != "outputs" {
		t.Errorf("Expected OutDir to be outputs, got %s", cfg.OutDir)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("MAX_TICKERS", "25")
	os.Setenv("LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("MAX_TICKERS")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.MaxTickers != 25 {
		t.Errorf("Expected MaxTickers to be 25, got %d", cfg.MaxTickers)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel to be debug, got %s", cfg.LogLevel)
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	os.Setenv("ENV", "nonsense")
	defer os.Unsetenv("ENV")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for invalid ENV")
	}
}

func TestGetEnvHelpers(t *testing.T) {
	os.Setenv("TEST_INT", "not-a-number")
	defer os.Unsetenv("TEST_INT")

	if got := getEnvAsInt("TEST_INT", 7); got != 7 {
		t.Errorf("expected fallback 7, got %d", got)
	}

	if got := getEnvAsFloat("TEST_MISSING_FLOAT", 1.5); got != 1.5 {
		t.Errorf("expected fallback 1.5, got %f", got)
	}

	if got := getEnvAsBool("TEST_MISSING_BOOL", true); got != true {
		t.Errorf("expected fallback true, got %v", got)
	}
}
