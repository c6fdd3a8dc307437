package config

import (
	"testing"
	"time"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	if !cfg.Enabled {
		t.Fatalf("limiter should default to enabled")
	}
	if cfg.Window != 15*time.Minute {
		t.Fatalf("unexpected default window: %s", cfg.Window)
	}
	if cfg.MaxRequests != 100 {
		t.Fatalf("unexpected default max requests: %d", cfg.MaxRequests)
	}
}

// Sub-second windows would break the limiter's epoch bucketing, so the
// loader rounds them up to one second.
func TestLoadRateLimitConfigClampsWindow(t *testing.T) {
	t.Setenv("RATE_LIMIT_WINDOW", "500ms")
	cfg := LoadRateLimitConfig()
	if cfg.Window < time.Second {
		t.Fatalf("window %s not clamped to one second", cfg.Window)
	}

	t.Setenv("RATE_LIMIT_WINDOW", "-5s")
	cfg = LoadRateLimitConfig()
	if cfg.Window < time.Second {
		t.Fatalf("negative window %s not clamped", cfg.Window)
	}
}
