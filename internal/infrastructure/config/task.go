package config

// TaskConfig holds ambient tuning for internal/application/taskexec.
type TaskConfig struct {
	// RateLimit throttles dispatch so a wide ready-layer in the task graph
	// can't saturate the Rcon connection pool all at once.
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}
