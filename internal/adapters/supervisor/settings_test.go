package supervisor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsIsRemoteServer(t *testing.T) {
	assert.False(t, Settings{}.IsRemoteServer())
	assert.True(t, Settings{ServerHost: "1.2.3.4"}.IsRemoteServer())
}

func TestSettingsPathHelpers(t *testing.T) {
	s := Settings{WorkspacePath: "/ws"}
	assert.Equal(t, filepath.Join("/ws", "server"), s.instancePath("server"))
	assert.Equal(t, filepath.Join("/ws", "server", ".lock"), s.lockPath("server"))
	assert.Equal(t, filepath.Join("/ws", "server", "saves", "level.zip"), s.savesLevelPath("server"))
	assert.Equal(t, filepath.Join("/ws", "server", "server-settings.json"), s.serverSettingsPath("server"))
}

func TestClientInstanceName(t *testing.T) {
	assert.Equal(t, "client1", clientInstanceName(1))
	assert.Equal(t, "client2", clientInstanceName(2))
}
