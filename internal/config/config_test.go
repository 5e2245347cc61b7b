package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.HazardLog.Lookback() != 730*24*time.Hour {
		t.Errorf("expected a two year lookback, got %v", cfg.HazardLog.Lookback())
	}
	if cfg.Advice.Enabled() {
		t.Error("expected advice generator to be disabled without an API key")
	}
	if cfg.Redis.URL != "" {
		t.Errorf("expected no redis by default, got %q", cfg.Redis.URL)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("HAZARD_LOG_POLL_INTERVAL", "0")
	t.Setenv("LOOKBACK_DAYS", "365")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.HazardLog.PollInterval != 0 {
		t.Errorf("expected polling disabled, got %v", cfg.HazardLog.PollInterval)
	}
	if cfg.HazardLog.LookbackDays != 365 {
		t.Errorf("expected 365 lookback days, got %d", cfg.HazardLog.LookbackDays)
	}
	if !cfg.Advice.Enabled() {
		t.Error("expected advice generator to be enabled")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"negative rate limit", "RATE_LIMIT_RPS", "-1"},
		{"zero workers", "WORKER_COUNT", "0"},
		{"sub-second polling", "HAZARD_LOG_POLL_INTERVAL", "10ms"},
		{"zero lookback", "LOOKBACK_DAYS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}
