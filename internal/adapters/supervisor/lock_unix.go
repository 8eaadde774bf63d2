//go:build !windows

package supervisor

import (
	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
)

// recoverFromStaleLock aborts the launch on Unix, matching the original
// client's refusal to guess at killing a process it doesn't own.
func recoverFromStaleLock(log *logging.Logger) error {
	log.With(nil).Error("factorio instance already running")
	return shared.ErrAlreadyStarted
}
