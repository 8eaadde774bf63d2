package supervisor

import (
	"context"
	"testing"

	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
	"github.com/stretchr/testify/require"
)

func newTestSupervisor(t *testing.T, settings Settings) *Supervisor {
	t.Helper()
	return New(settings, world.New(), logging.NewNop(), shared.NewRealClock())
}

func TestStartFailsFastOnMissingWorkspace(t *testing.T) {
	s := newTestSupervisor(t, Settings{WorkspacePath: t.TempDir() + "/does-not-exist"})
	err := s.Start(context.Background(), Initialized)
	require.ErrorIs(t, err, shared.ErrWorkspaceMissing)
}

func TestStartFailsFastOnMissingInstance(t *testing.T) {
	s := newTestSupervisor(t, Settings{WorkspacePath: t.TempDir()})
	err := s.Start(context.Background(), Initialized)
	require.ErrorIs(t, err, shared.ErrInstanceMissing)
}

func TestSessionIDIsStableAcrossCalls(t *testing.T) {
	s := newTestSupervisor(t, Settings{})
	require.Equal(t, s.SessionID(), s.SessionID())
	require.NotEmpty(t, s.SessionID())
}

func TestStopIsIdempotentlyRejectedAfterFirstCall(t *testing.T) {
	s := newTestSupervisor(t, Settings{})
	require.NoError(t, s.Stop())
	require.ErrorIs(t, s.Stop(), shared.ErrSupervisorStopped)
}
