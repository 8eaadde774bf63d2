package rcon

import (
	"context"
	"encoding/json"
	"math"

	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
)

// maxPathRetries and defaultPathRadius implement spec.md §4.6's path retry
// with rotation (Scenario D): up to 4 retries, 90°-clockwise rotation of
// the start->goal vector each time, radius defaulting to 10.
const (
	maxPathRetries    = 4
	defaultPathRadius = 10.0
)

// pathRequestFunc issues a single path-request attempt for goal and returns
// the resulting waypoints or an error. Declared as a function type (not a method) so
// Scenario D can be exercised with a fake provider, without a real RCON
// connection.
type pathRequestFunc func(ctx context.Context, goal spatial.Position) ([]spatial.Position, error)

func normalize(v spatial.Position) spatial.Position {
	length := math.Hypot(v.X, v.Y)
	if length == 0 {
		return spatial.Position{}
	}
	return spatial.Position{X: v.X / length, Y: v.Y / length}
}

func rotateClockwise90(v spatial.Position) spatial.Position {
	return spatial.Position{X: v.Y, Y: -v.X}
}

// retryPathWithRotation calls request with goal first; on each failure it
// rotates the start->goal direction 90° clockwise and retries against a
// goal offset from the original by that rotated unit vector times radius,
// up to maxPathRetries additional attempts (5 total).
func retryPathWithRotation(ctx context.Context, start, goal spatial.Position, radius float64, request pathRequestFunc) ([]spatial.Position, error) {
	direction := normalize(spatial.Position{X: goal.X - start.X, Y: goal.Y - start.Y})
	currentGoal := goal
	var lastErr error
	for attempt := 0; attempt <= maxPathRetries; attempt++ {
		path, err := request(ctx, currentGoal)
		if err == nil {
			return path, nil
		}
		lastErr = err
		direction = rotateClockwise90(direction)
		currentGoal = spatial.Position{X: goal.X + direction.X*radius, Y: goal.Y + direction.Y*radius}
	}
	return nil, lastErr
}

type pathPointDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func parsePath(body string) ([]spatial.Position, error) {
	if body == "{}" {
		body = "[]"
	}
	var points []pathPointDTO
	if err := json.Unmarshal([]byte(body), &points); err != nil {
		return nil, shared.NewUnexpectedOutputError(body)
	}
	if len(points) == 0 {
		return nil, shared.NewNoPathFoundError()
	}
	out := make([]spatial.Position, 0, len(points))
	for _, p := range points {
		out = append(out, spatial.Position{X: p.X, Y: p.Y})
	}
	return out, nil
}

func (r *Rcon) requestPathOnce(ctx context.Context, fn string, prefixArgs []string, goal spatial.Position, radius float64) ([]spatial.Position, error) {
	id := r.mirror.NextActionID()
	args := append(append([]string{uintToLua(id)}, prefixArgs...), positionToLua(goal), formatFloat(radius))
	if _, err := r.remoteCall(ctx, fn, args...); err != nil {
		return nil, err
	}
	body, err := r.actions.awaitPathRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	return parsePath(body)
}

// RequestPlayerPath asks for a walkable path from playerID's current
// position to goal, retrying with 90° rotation on failure.
func (r *Rcon) RequestPlayerPath(ctx context.Context, playerID uint32, goal spatial.Position, radius *float64) ([]spatial.Position, error) {
	rad := defaultPathRadius
	if radius != nil {
		rad = *radius
	}
	if err := checkRadius(rad); err != nil {
		return nil, err
	}
	player, ok := r.mirror.Player(playerID)
	if !ok {
		return nil, shared.NewPlayerNotFoundError(playerID)
	}
	request := func(ctx context.Context, g spatial.Position) ([]spatial.Position, error) {
		return r.requestPathOnce(ctx, "async_request_player_path", []string{uintToLua(playerID)}, g, rad)
	}
	return retryPathWithRotation(ctx, player.Position, goal, rad, request)
}

// RequestPath asks for a walkable path between two arbitrary positions,
// retrying with 90° rotation on failure.
func (r *Rcon) RequestPath(ctx context.Context, start, goal spatial.Position, radius *float64) ([]spatial.Position, error) {
	rad := defaultPathRadius
	if radius != nil {
		rad = *radius
	}
	if err := checkRadius(rad); err != nil {
		return nil, err
	}
	request := func(ctx context.Context, g spatial.Position) ([]spatial.Position, error) {
		return r.requestPathOnce(ctx, "async_request_path", []string{positionToLua(start)}, g, rad)
	}
	return retryPathWithRotation(ctx, start, goal, rad, request)
}
