package taskexec

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/factoriobot/internal/adapters/metrics"
	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/domain/taskgraph"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
)

// Executor walks a taskgraph.Graph breadth-first by dependency layer,
// dispatching each layer's ready nodes concurrently. Nodes sharing a
// PlayerID run sequentially relative to each other (one goroutine per
// worker, looping its own ready nodes in graph order); different workers'
// goroutines run concurrently, rate-limited to avoid saturating the
// Rcon connection pool.
type Executor struct {
	graph      *taskgraph.Graph
	dispatcher Dispatcher
	history    HistoryRecorder
	log        *logging.Logger
	clock      shared.Clock
	limiter    *rate.Limiter
	sessionID  string
}

// New builds an Executor over graph. sessionID correlates the recorded
// history entries with the ProcessSupervisor session that ran the plan.
func New(graph *taskgraph.Graph, dispatcher Dispatcher, history HistoryRecorder, clock shared.Clock, log *logging.Logger, sessionID string) *Executor {
	if history == nil {
		history = NopHistoryRecorder{}
	}
	return &Executor{
		graph:      graph,
		dispatcher: dispatcher,
		history:    history,
		log:        log,
		clock:      clock,
		limiter:    rate.NewLimiter(rate.Limit(20), 20),
		sessionID:  sessionID,
	}
}

// SetRateLimit overrides the default 20/20 dispatch throttle with
// config.TaskConfig.RateLimit's requests/burst. A zero requests is a no-op,
// so callers can pass an unset config through unconditionally.
func (e *Executor) SetRateLimit(requests, burst int) *Executor {
	if requests == 0 {
		return e
	}
	e.limiter = rate.NewLimiter(rate.Limit(requests), burst)
	return e
}

// Run executes every node in the graph, layer by layer, and returns the
// first dispatch error encountered (if any) once the last layer has
// finished; a failed node does not stop later layers from being
// dispatched. A plan's synthetic Start/End/group nodes carry no Data and are
// marked Success without a dispatch call.
func (e *Executor) Run(ctx context.Context) error {
	ids := e.graph.NodeIDs()
	adj := make(map[taskgraph.NodeID][]taskgraph.NodeID, len(ids))
	indegree := make(map[taskgraph.NodeID]int, len(ids))
	for _, id := range ids {
		adj[id] = e.graph.EdgesFrom(id)
		if _, ok := indegree[id]; !ok {
			indegree[id] = 0
		}
	}
	for _, targets := range adj {
		for _, to := range targets {
			indegree[to]++
		}
	}

	var ready []taskgraph.NodeID
	for _, id := range ids {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	var firstErr error
	var mu sync.Mutex
	recordErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for len(ready) > 0 {
		var wg sync.WaitGroup
		for _, group := range e.groupByWorker(ready) {
			group := group
			wg.Add(1)
			go func() {
				defer wg.Done()
				for _, id := range group {
					if err := e.runNode(ctx, id); err != nil {
						recordErr(err)
					}
				}
			}()
		}
		wg.Wait()

		var next []taskgraph.NodeID
		for _, id := range ready {
			for _, to := range adj[id] {
				indegree[to]--
				if indegree[to] == 0 {
					next = append(next, to)
				}
			}
		}
		ready = next
	}
	return firstErr
}

// groupByWorker partitions a ready layer into per-PlayerID run queues;
// nodes with no attributed worker (Start/End/group markers) each get their
// own singleton group so they run fully concurrently with everything else.
func (e *Executor) groupByWorker(ids []taskgraph.NodeID) [][]taskgraph.NodeID {
	indexByPlayer := make(map[uint32]int)
	var groups [][]taskgraph.NodeID
	for _, id := range ids {
		node, ok := e.graph.Node(id)
		if !ok || node.PlayerID == nil {
			groups = append(groups, []taskgraph.NodeID{id})
			continue
		}
		if idx, exists := indexByPlayer[*node.PlayerID]; exists {
			groups[idx] = append(groups[idx], id)
		} else {
			indexByPlayer[*node.PlayerID] = len(groups)
			groups = append(groups, []taskgraph.NodeID{id})
		}
	}
	return groups
}

func (e *Executor) tick() uint64 {
	return uint64(e.clock.Now().UnixNano())
}

func (e *Executor) record(ctx context.Context, id taskgraph.NodeID, node *taskgraph.TaskNode) {
	if err := e.history.RecordTransition(ctx, e.sessionID, id, node.Name, node.Status()); err != nil {
		e.log.With(nil).Warnf("taskexec: failed to record node %d transition: %v", id, err)
	}
}

func (e *Executor) runNode(ctx context.Context, id taskgraph.NodeID) error {
	node, ok := e.graph.Node(id)
	if !ok {
		return nil
	}
	if node.Data == nil {
		node.MarkSuccess(e.tick())
		e.record(ctx, id, node)
		return nil
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	node.MarkRunning(0, e.tick())
	e.record(ctx, id, node)

	var playerID uint32
	if node.PlayerID != nil {
		playerID = *node.PlayerID
	}

	dispatchStart := time.Now()
	err := e.dispatch(ctx, playerID, node.Data)
	metrics.RecordNodeDispatch(taskKindName(node.Data), time.Since(dispatchStart).Seconds(), err == nil)
	if err != nil {
		node.MarkFailed(e.tick(), err.Error())
	} else {
		node.MarkSuccess(e.tick())
	}
	e.record(ctx, id, node)
	return err
}

// taskKindName labels a TaskData value for metrics without reflection —
// a plain type switch mirroring dispatch's own.
func taskKindName(data taskgraph.TaskData) string {
	switch data.(type) {
	case taskgraph.MineTarget:
		return "mine"
	case taskgraph.PositionRadius:
		return "walk"
	case taskgraph.CraftData:
		return "craft"
	case taskgraph.PlaceEntityData:
		return "place"
	case taskgraph.InsertToInventoryData:
		return "insert_to_inventory"
	case taskgraph.RemoveFromInventoryData:
		return "remove_from_inventory"
	default:
		return "unknown"
	}
}

func (e *Executor) dispatch(ctx context.Context, playerID uint32, data taskgraph.TaskData) error {
	switch d := data.(type) {
	case taskgraph.MineTarget:
		return e.dispatcher.Mine(ctx, playerID, d)
	case taskgraph.PositionRadius:
		return e.dispatcher.Walk(ctx, playerID, d)
	case taskgraph.CraftData:
		return e.dispatcher.Craft(ctx, playerID, d.Item)
	case taskgraph.PlaceEntityData:
		return e.dispatcher.Place(ctx, playerID, d.Entity)
	case taskgraph.InsertToInventoryData:
		return e.dispatcher.InsertToInventory(ctx, playerID, d.Location, d.Item)
	case taskgraph.RemoveFromInventoryData:
		return e.dispatcher.RemoveFromInventory(ctx, playerID, d.Location, d.Item)
	default:
		return fmt.Errorf("taskexec: unknown task data %T", data)
	}
}
