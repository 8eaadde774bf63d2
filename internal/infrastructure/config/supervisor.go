package config

import "time"

// SupervisorConfig holds ambient timing bounds for
// internal/adapters/supervisor, beyond the launch parameters InstanceConfig
// already carries.
type SupervisorConfig struct {
	// StartupTimeout bounds how long to wait for the Initialized gate
	// (first sentinel banner line) before giving up.
	StartupTimeout time.Duration `mapstructure:"startup_timeout" validate:"required"`

	// DiscoveryTimeout bounds how long to wait for the DiscoveryComplete
	// gate (STATIC_DATA_END telemetry record) after Initialized.
	DiscoveryTimeout time.Duration `mapstructure:"discovery_timeout" validate:"required"`

	// ShutdownTimeout is the timeout Controller.Stop derives its context
	// from. Supervisor.Stop kills launched processes at once and does not
	// wait on it.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
