package controller_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factoriobot/internal/adapters/supervisor"
	"github.com/andrescamacho/factoriobot/internal/application/controller"
	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Instance: config.InstanceConfig{
			WorkspacePath: t.TempDir(),
			RconPort:      27015,
			RconPass:      "secret",
			ClientCount:   1,
		},
		Supervisor: config.SupervisorConfig{
			StartupTimeout:   2 * time.Second,
			DiscoveryTimeout: 2 * time.Second,
			ShutdownTimeout:  2 * time.Second,
		},
	}
}

func TestNewWiresCollaborators(t *testing.T) {
	clock := shared.NewMockClock(time.Unix(0, 0))
	c := controller.New(testConfig(t), nil, clock, nil)

	assert.NotNil(t, c.Mirror())
	assert.NotNil(t, c.Entities())
	assert.NotNil(t, c.Flows())
	assert.NotEmpty(t, c.SessionID())
}

func TestNewAssignsDistinctSessionIDs(t *testing.T) {
	clock := shared.NewMockClock(time.Unix(0, 0))
	cfg := testConfig(t)
	a := controller.New(cfg, nil, clock, nil)
	b := controller.New(cfg, nil, clock, nil)

	assert.NotEqual(t, a.SessionID(), b.SessionID())
}

func TestStartFailsFastWhenInstanceLayoutMissing(t *testing.T) {
	clock := shared.NewMockClock(time.Unix(0, 0))
	c := controller.New(testConfig(t), nil, clock, nil)

	err := c.Start(context.Background(), supervisor.Initialized)
	require.Error(t, err)
}

func TestStopWithoutStartIsANoop(t *testing.T) {
	clock := shared.NewMockClock(time.Unix(0, 0))
	c := controller.New(testConfig(t), nil, clock, nil)

	assert.NoError(t, c.Stop(context.Background()))
}

func TestRegenerateMapExchangeStringFailsWhenInstanceLayoutMissing(t *testing.T) {
	clock := shared.NewMockClock(time.Unix(0, 0))
	c := controller.New(testConfig(t), nil, clock, nil)

	_, err := c.RegenerateMapExchangeString(context.Background(), "some-exchange-string")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start instance")
}
