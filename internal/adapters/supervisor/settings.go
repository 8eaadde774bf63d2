// Package supervisor spawns and tears down the game's server/client
// processes, scrapes their stdout for lifecycle signals and telemetry, and
// gates startup behind two readiness levels (spec.md §4.7).
package supervisor

import (
	"fmt"
	"path/filepath"
)

// serverSettingsFilename is the game's dedicated-server configuration file
// name, matching the original Rust client's SERVER_SETTINGS_FILENAME.
const serverSettingsFilename = "server-settings.json"

// lockAwaitInterval/lockAwaitAttempts implement the "retry every 1ms up to
// 1s" bound from spec.md §4.7.
const (
	lockAwaitInterval = 1
	lockAwaitAttempts = 1000
)

// Settings configures one supervised instance launch. It mirrors the
// {workspace_path, factorio_archive_path, rcon_port, rcon_pass, server_host,
// client_count, recreate, map_exchange_string, seed, write_logs, silent}
// struct named in spec.md §6.7.
type Settings struct {
	WorkspacePath       string
	FactorioArchivePath string
	RconPort            int
	RconPass            string
	ServerHost          string
	ClientCount         int
	Recreate            bool
	MapExchangeString   string
	Seed                string
	WriteLogs           bool
	Silent              bool
}

// IsRemoteServer reports whether this supervisor should connect to an
// already-running server instead of launching one, mirroring the original
// `server_host.is_none()` branch in process_control.rs.
func (s Settings) IsRemoteServer() bool {
	return s.ServerHost != ""
}

func (s Settings) instancePath(instanceName string) string {
	return filepath.Join(s.WorkspacePath, instanceName)
}

func (s Settings) lockPath(instanceName string) string {
	return filepath.Join(s.instancePath(instanceName), ".lock")
}

func (s Settings) binaryPath(instanceName string) string {
	return filepath.Join(s.instancePath(instanceName), "bin", "x64", binaryName)
}

func (s Settings) savesLevelPath(instanceName string) string {
	return filepath.Join(s.instancePath(instanceName), "saves", "level.zip")
}

func (s Settings) serverSettingsPath(instanceName string) string {
	return filepath.Join(s.instancePath(instanceName), serverSettingsFilename)
}

func (s Settings) logPath(instanceName string) string {
	return filepath.Join(s.WorkspacePath, fmt.Sprintf("%s-log.txt", instanceName))
}

func clientInstanceName(n int) string {
	return fmt.Sprintf("client%d", n)
}
