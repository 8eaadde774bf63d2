package config

// InstanceConfig is the lifecycle configuration struct spec.md §6.7 names:
// the options Start/Stop take to launch (or attach to) a game instance.
type InstanceConfig struct {
	// Directory holding one subdirectory per launched instance
	// (server, client0, client1, ...).
	WorkspacePath string `mapstructure:"workspace_path" validate:"required"`

	// Archive the instance directories are populated from when an instance
	// doesn't already exist (provisioning itself stays out of scope per
	// spec.md's Non-goals — this field is read, not acted on, by
	// internal/adapters/supervisor).
	FactorioArchivePath string `mapstructure:"factorio_archive_path" validate:"required"`

	// RCON port and password every launched instance's server-settings.json
	// is configured with, and internal/adapters/rcon dials.
	RconPort int    `mapstructure:"rcon_port" validate:"required,min=1,max=65535"`
	RconPass string `mapstructure:"rcon_pass" validate:"required"`

	// ServerHost, when set, attaches to an already-running remote server
	// instead of launching one locally.
	ServerHost string `mapstructure:"server_host"`

	// ClientCount is the number of client instances to launch alongside the
	// server.
	ClientCount int `mapstructure:"client_count" validate:"min=0"`

	// Recreate wipes and repopulates an instance directory that already
	// exists, instead of reusing it.
	Recreate bool `mapstructure:"recreate"`

	// MapExchangeString, when set, seeds a newly created save from an
	// exported map string (spec.md §4.3) instead of a fresh random map.
	MapExchangeString string `mapstructure:"map_exchange_string"`

	// Seed is the RNG seed for a freshly created map, when MapExchangeString
	// is empty.
	Seed string `mapstructure:"seed"`

	// WriteLogs mirrors each instance's stdout to workspace_path/<name>-log.txt.
	WriteLogs bool `mapstructure:"write_logs"`

	// Silent suppresses the Rcon client's own request/response logging.
	Silent bool `mapstructure:"silent"`
}
