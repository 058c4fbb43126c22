package adlib

import "time"

// Config bounds a Collector's request pacing, retry behavior, and proxy
// rotation. Loaded via internal/configutil from a JSON5 file (with an
// optional ".local" override), matching every other config-driven part of
// this codebase.
type Config struct {
	ProxyEndpoints   []string      `json:"proxy_endpoints"`
	ProxyMaxFailures int           `json:"proxy_max_failures"`
	ProxyCooldown    time.Duration `json:"proxy_cooldown"`

	Timeout            time.Duration `json:"timeout"`
	MaxRetries         int           `json:"max_retries"`
	MaxRefreshAttempts int           `json:"max_refresh_attempts"`
	RateLimitDelay     time.Duration `json:"rate_limit_delay"`
	Jitter             time.Duration `json:"jitter"`

	DedupDatabasePath string `json:"dedup_database_path"`
}

// DefaultConfig mirrors this domain's hardcoded defaults: 30s timeout, 3
// network/rate-limit retries, 3 consecutive session-refresh attempts before
// giving up as fatal, a 2s rate-limit floor with 1s of jitter, no proxy
// pool, and an in-memory (non-persistent) dedup tracker.
func DefaultConfig() Config {
	return Config{
		ProxyMaxFailures:   3,
		ProxyCooldown:      5 * time.Minute,
		Timeout:            defaultTimeout,
		MaxRetries:         defaultMaxRetries,
		MaxRefreshAttempts: defaultMaxRefreshAttempts,
		RateLimitDelay:     defaultRateLimitDelay,
		Jitter:             defaultJitter,
	}
}
