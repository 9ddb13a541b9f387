package config_test

import (
	"testing"
	"time"

	"github.com/iho/caja/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CURRENCY", " mxn ")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.Currency != "MXN" {
		t.Fatalf("expected currency to be upper-cased, got %s", cfg.Currency)
	}

	if cfg.MigrationsPath != "migrations" || cfg.MigrateOnStart {
		t.Fatalf("unexpected migration defaults: path=%s onStart=%v", cfg.MigrationsPath, cfg.MigrateOnStart)
	}

	if cfg.CacheTTL != time.Hour {
		t.Fatalf("expected cache TTL of 1h, got %s", cfg.CacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("CURRENCY", "PEN")
	t.Setenv("MIGRATE_ON_START", "true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.RateLimitRPS != 2.5 || cfg.RateLimitBurst != 5 {
		t.Fatalf("expected rate limit overrides, got rps=%v burst=%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	if cfg.Currency != "PEN" || !cfg.MigrateOnStart {
		t.Fatalf("expected currency and migrate overrides, got %s %v", cfg.Currency, cfg.MigrateOnStart)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadRejectsBadCurrency(t *testing.T) {
	t.Setenv("CURRENCY", "EURO")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for 4-letter currency")
	}
}

func TestLoadRejectsNonPositiveRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "0")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for zero rate limit")
	}
}
