package rcon

import (
	"context"
	"time"

	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
)

// Poll/timeout bounds for correlated long-running actions (spec.md §4.6).
const (
	actionPollInterval = 50 * time.Millisecond
	actionTimeout       = 360 * time.Second
	pathRequestTimeout  = 60 * time.Second
)

// actionAwaiter polls WorldMirror's pending-action and path-request maps to
// completion, the non-blocking-send-plus-bounded-poll pattern spec.md §9
// calls out as the explicit testable surface (no callbacks).
type actionAwaiter struct {
	mirror *world.Mirror
	clock  shared.Clock
}

func newActionAwaiter(mirror *world.Mirror, clock shared.Clock) *actionAwaiter {
	return &actionAwaiter{mirror: mirror, clock: clock}
}

// await polls `world.actions[id]` every 50ms up to 360s. On completion it
// drains the entry; "ok" returns nil, anything else surfaces the stored
// message as an error.
func (a *actionAwaiter) await(ctx context.Context, id uint32) error {
	deadline := a.clock.Now().Add(actionTimeout)
	for {
		if action, ok := a.mirror.Action(id); ok && action.Outcome != world.ActionPending {
			a.mirror.DrainAction(id)
			if action.Outcome == world.ActionOk {
				return nil
			}
			return shared.NewRconError(action.Message)
		}
		if a.clock.Now().After(deadline) {
			return shared.NewTimeoutError(id)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		a.clock.Sleep(actionPollInterval)
	}
}

// awaitPathRequest polls the path-requests map with a 60s bound.
func (a *actionAwaiter) awaitPathRequest(ctx context.Context, id uint32) (string, error) {
	deadline := a.clock.Now().Add(pathRequestTimeout)
	for {
		if body, ok := a.mirror.DrainPathRequest(id); ok {
			return body, nil
		}
		if a.clock.Now().After(deadline) {
			return "", shared.NewTimeoutError(id)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		a.clock.Sleep(actionPollInterval)
	}
}
