package config

// RconConfig holds ambient tuning for internal/adapters/rcon, beyond the
// connection endpoint InstanceConfig already carries (RconPort/RconPass).
type RconConfig struct {
	// RateLimit throttles remote_call dispatch so a burst of controller
	// requests can't flood the single-threaded game process.
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig is a requests/burst token-bucket shape, reused here for
// both Rcon dispatch and (via TaskConfig) task dispatch.
type RateLimitConfig struct {
	// Requests is the steady-state requests-per-second ceiling.
	Requests int `mapstructure:"requests" validate:"min=1"`

	// Burst is the token bucket's burst size.
	Burst int `mapstructure:"burst" validate:"min=1"`
}
