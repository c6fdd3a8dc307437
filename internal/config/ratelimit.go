package config

import "time"

// RateLimitConfig tunes the Redis fixed-window request limiter.  MaxRequests
// requests are allowed per Window for each client key; counters expire with
// the window so idle clients cost nothing.
type RateLimitConfig struct {
	Enabled     bool
	Window      time.Duration
	MaxRequests int
	Prefix      string
}

// LoadRateLimitConfig reads limiter settings from the environment.  The
// defaults mirror a 100-requests-per-15-minutes policy.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:     envBool("RATE_LIMIT_ENABLED", true),
		Window:      envDur("RATE_LIMIT_WINDOW", 15*time.Minute),
		MaxRequests: envInt("RATE_LIMIT_MAX_REQUESTS", 100),
		Prefix:      envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.MaxRequests < 1 {
		cfg.MaxRequests = 1
	}
	// The limiter buckets epoch seconds, so sub-second windows are rounded
	// up rather than allowed to divide by zero.
	if cfg.Window < time.Second {
		cfg.Window = time.Second
	}
	return cfg
}
