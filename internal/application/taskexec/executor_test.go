package taskexec

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/domain/taskgraph"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	mu        sync.Mutex
	mineCalls int
	walkCalls int
	failMine  bool
}

func (f *fakeDispatcher) Mine(ctx context.Context, playerID uint32, target taskgraph.MineTarget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mineCalls++
	if f.failMine {
		return errors.New("mining failed")
	}
	return nil
}

func (f *fakeDispatcher) Walk(ctx context.Context, playerID uint32, target taskgraph.PositionRadius) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.walkCalls++
	return nil
}

func (f *fakeDispatcher) Craft(ctx context.Context, playerID uint32, item taskgraph.InventoryItem) error {
	return nil
}

func (f *fakeDispatcher) Place(ctx context.Context, playerID uint32, entity world.FactorioEntity) error {
	return nil
}

func (f *fakeDispatcher) InsertToInventory(ctx context.Context, playerID uint32, location taskgraph.InventoryLocation, item taskgraph.InventoryItem) error {
	return nil
}

func (f *fakeDispatcher) RemoveFromInventory(ctx context.Context, playerID uint32, location taskgraph.InventoryLocation, item taskgraph.InventoryItem) error {
	return nil
}

type recordingHistory struct {
	mu            sync.Mutex
	transitions   []taskgraph.Status
	transitionIDs []taskgraph.NodeID
}

func (h *recordingHistory) RecordTransition(ctx context.Context, sessionID string, nodeID taskgraph.NodeID, name string, status taskgraph.Status) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.transitions = append(h.transitions, status)
	h.transitionIDs = append(h.transitionIDs, nodeID)
	return nil
}

func (h *recordingHistory) countFor(id taskgraph.NodeID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, got := range h.transitionIDs {
		if got == id {
			n++
		}
	}
	return n
}

func newTestExecutor(graph *taskgraph.Graph, dispatcher Dispatcher, history HistoryRecorder) *Executor {
	return New(graph, dispatcher, history, shared.NewRealClock(), logging.NewNop(), "test-session")
}

func TestExecutorRunsSingleWorkerChain(t *testing.T) {
	g := taskgraph.New()
	g.GroupStart("foo")
	id := g.AddMineNode(1, 3, taskgraph.MineTarget{Name: "iron-ore", Count: 1})
	g.AddWalkNode(1, 2, taskgraph.PositionRadius{Radius: 1})
	g.GroupEnd()

	dispatcher := &fakeDispatcher{}
	history := &recordingHistory{}
	exec := newTestExecutor(g, dispatcher, history)

	require.NoError(t, exec.Run(context.Background()))
	assert.Equal(t, 1, dispatcher.mineCalls)
	assert.Equal(t, 1, dispatcher.walkCalls)

	node, _ := g.Node(id)
	assert.Equal(t, taskgraph.Success, node.Status().Phase)
	assert.GreaterOrEqual(t, history.countFor(id), 2, "expect at least a Running and a Success transition recorded")
}

func TestExecutorDispatchesDivergingWorkersConcurrently(t *testing.T) {
	g := taskgraph.New()
	g.GroupStart("foo")
	mine1 := g.AddMineNode(1, 3, taskgraph.MineTarget{Name: "iron-ore", Count: 1})
	mine2 := g.AddMineNode(2, 3, taskgraph.MineTarget{Name: "iron-ore", Count: 1})
	g.GroupEnd()

	dispatcher := &fakeDispatcher{}
	history := &recordingHistory{}
	exec := newTestExecutor(g, dispatcher, history)

	require.NoError(t, exec.Run(context.Background()))
	assert.Equal(t, 2, dispatcher.mineCalls)

	n1, _ := g.Node(mine1)
	n2, _ := g.Node(mine2)
	assert.Equal(t, taskgraph.Success, n1.Status().Phase)
	assert.Equal(t, taskgraph.Success, n2.Status().Phase)
}

func TestExecutorPropagatesDispatchFailureAndMarksNodeFailed(t *testing.T) {
	g := taskgraph.New()
	g.GroupStart("foo")
	id := g.AddMineNode(1, 3, taskgraph.MineTarget{Name: "iron-ore", Count: 1})
	g.GroupEnd()

	dispatcher := &fakeDispatcher{failMine: true}
	history := &recordingHistory{}
	exec := newTestExecutor(g, dispatcher, history)

	err := exec.Run(context.Background())
	require.Error(t, err)

	node, _ := g.Node(id)
	status := node.Status()
	assert.Equal(t, taskgraph.Failed, status.Phase)
	assert.Equal(t, "mining failed", status.Message)
}

func TestExecutorMarksStructuralNodesSuccessWithoutDispatch(t *testing.T) {
	g := taskgraph.New()
	dispatcher := &fakeDispatcher{}
	exec := newTestExecutor(g, dispatcher, &recordingHistory{})

	require.NoError(t, exec.Run(context.Background()))
	assert.Equal(t, 0, dispatcher.mineCalls)

	start, _ := g.Node(g.StartNode)
	assert.Equal(t, taskgraph.Success, start.Status().Phase)
}
