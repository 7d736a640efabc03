package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.Environment != "development" {
		t.Fatalf("expected environment %q, got %q", "development", cfg.Environment)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected addr %q, got %q", ":8080", cfg.Addr)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected log level %q, got %q", "info", cfg.LogLevel)
	}
	if cfg.RateLimitPerMinute != 100 {
		t.Fatalf("expected rate limit 100, got %d", cfg.RateLimitPerMinute)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("expected shutdown timeout 5s, got %s", cfg.ShutdownTimeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ADDR", ":9000")
	t.Setenv("DATABASE_URL", "postgres://calc:calc@db:5432/calculator")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.Environment != "production" {
		t.Fatalf("expected environment %q, got %q", "production", cfg.Environment)
	}
	if cfg.Addr != ":9000" {
		t.Fatalf("expected addr %q, got %q", ":9000", cfg.Addr)
	}
	if cfg.DatabaseURL == "" {
		t.Fatal("expected database URL to be set")
	}
	if !cfg.RateLimitEnabled() {
		t.Fatal("expected rate limiting to be enabled")
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Fatalf("expected shutdown timeout 30s, got %s", cfg.ShutdownTimeout)
	}
}

func TestRateLimitEnabled(t *testing.T) {
	tests := []struct {
		name  string
		addr  string
		limit int
		want  bool
	}{
		{name: "no redis", addr: "", limit: 100, want: false},
		{name: "zero limit", addr: "redis:6379", limit: 0, want: false},
		{name: "enabled", addr: "redis:6379", limit: 100, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{RedisAddr: tc.addr, RateLimitPerMinute: tc.limit}
			if got := cfg.RateLimitEnabled(); got != tc.want {
				t.Fatalf("expected %t, got %t", tc.want, got)
			}
		})
	}
}

func TestLoadRejectsNegativeRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative rate limit")
	}
}
