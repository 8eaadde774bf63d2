//go:build windows

package supervisor

import (
	"os/exec"

	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
)

// recoverFromStaleLock kills any matching factorio.exe process on Windows;
// on Unix the same situation aborts with shared.ErrAlreadyStarted instead.
func recoverFromStaleLock(log *logging.Logger) error {
	log.With(nil).Warn("killing stale factorio.exe processes")
	if err := exec.Command("taskkill", "/F", "/IM", binaryName).Run(); err != nil {
		log.With(nil).Warnf("failed to kill stale factorio.exe: %v", err)
	}
	return nil
}
