package rcon

import (
	"context"
	"math"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/factoriobot/internal/adapters/metrics"
	"github.com/andrescamacho/factoriobot/internal/domain/entitygraph"
	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
)

// maxRadius is the ceiling every radius-bearing query is checked against
// before any network call is attempted (spec.md §4.6 Scenario E).
const maxRadius = 3000.0

// Rcon is the controller-facing façade bundling the pooled client, the
// action/path-request awaiter, and read access to WorldMirror/EntityGraph
// that preflight checks and spatial queries need.
type Rcon struct {
	client   *Client
	actions  *actionAwaiter
	mirror   *world.Mirror
	entities *entitygraph.Graph
	log      *logging.Logger
	limiter  *rate.Limiter
}

// New builds a Rcon bound to settings, polling action/path completions
// through clock (use shared.NewRealClock() in production; a MockClock
// makes the 360s/60s bounds instant in tests). requests/burst configure the
// remote_call throttle (config.RconConfig.RateLimit); a zero requests
// falls back to 20/20.
func New(settings Settings, mirror *world.Mirror, entities *entitygraph.Graph, clock shared.Clock, log *logging.Logger, silent bool, requests, burst int) *Rcon {
	if requests == 0 {
		requests = 20
		burst = 20
	}
	return &Rcon{
		client:   NewClient(settings, silent, log),
		actions:  newActionAwaiter(mirror, clock),
		mirror:   mirror,
		entities: entities,
		log:      log,
		limiter:  rate.NewLimiter(rate.Limit(requests), burst),
	}
}

func (r *Rcon) remoteCall(ctx context.Context, fn string, args ...string) ([]string, error) {
	waitStart := time.Now()
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	metrics.RecordRateLimitWait(fn, time.Since(waitStart).Seconds())

	callStart := time.Now()
	result, err := r.client.RemoteCall(ctx, fn, args...)
	metrics.RecordRemoteCall(fn, time.Since(callStart).Seconds(), err == nil)
	return result, err
}

func checkRadius(radius float64) error {
	if radius > maxRadius {
		return shared.NewRadiusLimitReachedError(maxRadius)
	}
	return nil
}

func calculateDistance(a, b spatial.Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// preflightMove issues a synthetic move_player to target if the player's
// position is farther than maxDistance away, per spec.md §4.6's distance
// preflight rule.
func (r *Rcon) preflightMove(ctx context.Context, playerID uint32, target spatial.Position, maxDistance float64) error {
	player, ok := r.mirror.Player(playerID)
	if !ok {
		return shared.NewPlayerNotFoundError(playerID)
	}
	if calculateDistance(player.Position, target) <= maxDistance {
		return nil
	}
	r.log.With(nil).Warnf("player %d too far away, moving first", playerID)
	return r.MovePlayer(ctx, playerID, target, &maxDistance)
}
