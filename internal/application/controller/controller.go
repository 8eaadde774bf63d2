// Package controller owns every component spec.md §2 lists — WorldMirror,
// EntityGraph, FlowGraph, Rcon, ProcessSupervisor — and exposes the public
// operations a caller drives a running instance with. It is the Controller
// named in spec.md's overview and SPEC_FULL.md §1.
//
// A concrete struct with typed methods was chosen over a reflection-based
// CQRS mediator (command/query registered by type, dispatched via
// reflection) because this Controller's operation set is the small, fixed
// list spec.md §4 and SPEC_FULL.md §4 name — it does not grow command types
// at runtime the way a domain spanning many independently evolving business
// areas would. A concrete service struct exposing direct typed methods over
// its injected collaborators fits that shape better, so New composes the
// collaborators directly and every operation below is a typed method.
package controller

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factoriobot/internal/adapters/rcon"
	"github.com/andrescamacho/factoriobot/internal/adapters/supervisor"
	"github.com/andrescamacho/factoriobot/internal/application/taskexec"
	"github.com/andrescamacho/factoriobot/internal/domain/entitygraph"
	"github.com/andrescamacho/factoriobot/internal/domain/flowgraph"
	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/domain/taskgraph"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/config"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
)

// Controller wires WorldMirror, EntityGraph, FlowGraph, Rcon and
// ProcessSupervisor together behind the operations the rest of this module
// (and, eventually, the embedded scripting layer spec.md excludes) drives an
// instance with.
type Controller struct {
	cfg *config.Config
	log *logging.Logger

	mirror   *world.Mirror
	entities *entitygraph.Graph
	flows    *flowgraph.Graph
	sup      *supervisor.Supervisor
	rc       *rcon.Rcon
	history  taskexec.HistoryRecorder
}

// New builds a Controller from cfg. history may be nil, in which case task
// executions run without an audit trail (taskexec.NopHistoryRecorder).
func New(cfg *config.Config, log *logging.Logger, clock shared.Clock, history taskexec.HistoryRecorder) *Controller {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if log == nil {
		log = logging.NewNop()
	}

	mirror := world.New()
	entities := entitygraph.New(mirror, log)
	mirror.AttachEntityGraph(entities)
	flows := flowgraph.New(entities, mirror)

	supSettings := supervisor.Settings{
		WorkspacePath:       cfg.Instance.WorkspacePath,
		FactorioArchivePath: cfg.Instance.FactorioArchivePath,
		RconPort:            cfg.Instance.RconPort,
		RconPass:            cfg.Instance.RconPass,
		ServerHost:          cfg.Instance.ServerHost,
		ClientCount:         cfg.Instance.ClientCount,
		Recreate:            cfg.Instance.Recreate,
		MapExchangeString:   cfg.Instance.MapExchangeString,
		Seed:                cfg.Instance.Seed,
		WriteLogs:           cfg.Instance.WriteLogs,
		Silent:              cfg.Instance.Silent,
	}
	sup := supervisor.New(supSettings, mirror, log, clock)

	rconSettings := rcon.Settings{
		Host:     cfg.Instance.ServerHost,
		Port:     cfg.Instance.RconPort,
		Password: cfg.Instance.RconPass,
	}
	rc := rcon.New(rconSettings, mirror, entities, clock, log, cfg.Instance.Silent,
		cfg.Rcon.RateLimit.Requests, cfg.Rcon.RateLimit.Burst)

	return &Controller{
		cfg:      cfg,
		log:      log,
		mirror:   mirror,
		entities: entities,
		flows:    flows,
		sup:      sup,
		rc:       rc,
		history:  history,
	}
}

// Mirror exposes the world mirror for read-only spatial/entity access by
// callers that need more than the query passthroughs below (e.g. a future
// embedded scripting layer).
func (c *Controller) Mirror() *world.Mirror { return c.mirror }

// Entities exposes the entity graph.
func (c *Controller) Entities() *entitygraph.Graph { return c.entities }

// Flows exposes the flow graph.
func (c *Controller) Flows() *flowgraph.Graph { return c.flows }

// SessionID identifies the supervised instance launch this Controller owns,
// for correlating task-history rows with a particular run.
func (c *Controller) SessionID() string { return c.sup.SessionID() }

// Start launches the supervised instance and blocks until gate fires, bound
// by cfg.Supervisor.StartupTimeout (Initialized) or DiscoveryTimeout
// (DiscoveryComplete) — the ambient SupervisorConfig this Controller is the
// sole consumer of.
func (c *Controller) Start(ctx context.Context, gate supervisor.Gate) error {
	timeout := c.cfg.Supervisor.StartupTimeout
	if gate == supervisor.DiscoveryComplete {
		timeout = c.cfg.Supervisor.DiscoveryTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.sup.Start(ctx, gate)
}

// Stop tears the supervised instance down. Supervisor.Stop takes no context
// and kills each process without waiting, so the context derived from
// cfg.Supervisor.ShutdownTimeout here does not bound the call.
func (c *Controller) Stop(ctx context.Context) error {
	_, cancel := context.WithTimeout(ctx, c.cfg.Supervisor.ShutdownTimeout)
	defer cancel()
	return c.sup.Stop()
}

// ExecutePlan runs every node of graph to completion via this Controller's
// Rcon-backed Dispatcher, recording each node's lifecycle transition through
// history (SPEC_FULL.md §4.2). It returns the first dispatch error, if any.
func (c *Controller) ExecutePlan(ctx context.Context, graph *taskgraph.Graph, clock shared.Clock) error {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	exec := taskexec.New(graph, c, c.history, clock, c.log, c.SessionID()).
		SetRateLimit(c.cfg.Task.RateLimit.Requests, c.cfg.Task.RateLimit.Burst)
	return exec.Run(ctx)
}

// RegenerateMapExchangeString launches the server against exchangeString,
// asks it to decode the string via Rcon, and returns the decoded JSON as a
// string for the caller to persist — SPEC_FULL.md §4.3, grounded on
// original_source's generate/update_map_gen_settings sequencing (start a
// server, issue one parse_map_exchange_string call, shut down).
func (c *Controller) RegenerateMapExchangeString(ctx context.Context, exchangeString string) (string, error) {
	if err := c.Start(ctx, supervisor.Initialized); err != nil {
		return "", fmt.Errorf("controller: failed to start instance for map exchange regeneration: %w", err)
	}
	defer func() {
		if err := c.Stop(ctx); err != nil {
			c.log.With(nil).Warnf("controller: failed to stop instance after map exchange regeneration: %v", err)
		}
	}()

	raw, err := c.rc.ParseMapExchangeString(ctx, exchangeString)
	if err != nil {
		return "", fmt.Errorf("controller: failed to parse map exchange string: %w", err)
	}
	return string(raw), nil
}
