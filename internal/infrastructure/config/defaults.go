package config

import "time"

// SetDefaults sets default values for any configuration fields the caller
// left zero.
func SetDefaults(cfg *Config) {
	// Instance defaults
	if cfg.Instance.RconPort == 0 {
		cfg.Instance.RconPort = 27015
	}
	if cfg.Instance.ClientCount == 0 {
		cfg.Instance.ClientCount = 1
	}

	// Rcon defaults
	if cfg.Rcon.RateLimit.Requests == 0 {
		cfg.Rcon.RateLimit.Requests = 20
	}
	if cfg.Rcon.RateLimit.Burst == 0 {
		cfg.Rcon.RateLimit.Burst = 20
	}

	// Supervisor defaults
	if cfg.Supervisor.StartupTimeout == 0 {
		cfg.Supervisor.StartupTimeout = 60 * time.Second
	}
	if cfg.Supervisor.DiscoveryTimeout == 0 {
		cfg.Supervisor.DiscoveryTimeout = 120 * time.Second
	}
	if cfg.Supervisor.ShutdownTimeout == 0 {
		cfg.Supervisor.ShutdownTimeout = 30 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	// Task defaults
	if cfg.Task.RateLimit.Requests == 0 {
		cfg.Task.RateLimit.Requests = 20
	}
	if cfg.Task.RateLimit.Burst == 0 {
		cfg.Task.RateLimit.Burst = 20
	}

	// Persistence defaults
	if cfg.Persistence.Path == "" {
		cfg.Persistence.Path = ":memory:"
	}

	// Metrics defaults
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
