package supervisor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitLockReturnsImmediatelyWhenAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")
	err := awaitLock(path, shared.NewRealClock(), logging.NewNop())
	require.NoError(t, err)
}

func TestAwaitLockSucceedsOnceFileDisappears(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")
	require.NoError(t, os.WriteFile(path, []byte("123"), 0644))

	go func() {
		time.Sleep(5 * time.Millisecond)
		_ = os.Remove(path)
	}()

	started := time.Now()
	err := awaitLock(path, shared.NewRealClock(), logging.NewNop())
	require.NoError(t, err)
	assert.Less(t, time.Since(started), time.Second)
}

func TestAwaitLockFallsBackAfterOneSecondOnUnix(t *testing.T) {
	if isWindows() {
		t.Skip("unix-only fallback behavior")
	}
	path := filepath.Join(t.TempDir(), ".lock")
	require.NoError(t, os.WriteFile(path, []byte("123"), 0644))

	started := time.Now()
	err := awaitLock(path, &shared.MockClock{}, logging.NewNop())
	require.ErrorIs(t, err, shared.ErrAlreadyStarted)
	assert.Less(t, time.Since(started), 2*time.Second, "MockClock.Sleep must not block real time")
}
