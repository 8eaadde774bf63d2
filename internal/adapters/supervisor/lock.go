package supervisor

import (
	"os"
	"time"

	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
)

// awaitLock waits for a stale .lock file left by a previous game process to
// disappear, retrying removal every millisecond for up to a second before
// falling back to the OS-specific recovery path (spec.md §4.7).
func awaitLock(path string, clock shared.Clock, log *logging.Logger) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if os.Remove(path) == nil {
		return nil
	}

	log.With(nil).Debug("waiting for .lock to disappear")
	for i := 0; i < lockAwaitAttempts; i++ {
		clock.Sleep(lockAwaitInterval * time.Millisecond)
		if os.Remove(path) == nil {
			return nil
		}
	}

	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return recoverFromStaleLock(log)
}
