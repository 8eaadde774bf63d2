package taskgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mineTarget() MineTarget {
	return MineTarget{Name: "iron-ore", Count: 1}
}

// TestSimpleGroup is grounded directly on task_graph.rs's test_simple_group:
// a single-member group collapses to a straight chain with no extra
// join-weighting.
func TestSimpleGroup(t *testing.T) {
	g := New()
	g.GroupStart("foo")
	g.AddMineNode(1, 3, mineTarget())
	g.GroupEnd()

	want := `digraph {
    0 [ label = "Process Start" ]
    1 [ label = "Process End" ]
    2 [ label = "Start: foo" ]
    3 [ label = "Mining iron-ore" ]
    4 [ label = "End" ]
    0 -> 2 [ label = "0" ]
    2 -> 3 [ label = "3" ]
    3 -> 4 [ label = "0" ]
    4 -> 1 [ label = "0" ]
}
`
	assert.Equal(t, want, g.GraphvizDot())
}

// TestDivergingGroup is grounded on task_graph.rs's test_diverging_group: two
// workers in one group, one doing two steps and the other one, joined with
// the slower worker's chain getting a zero-weight join edge and the faster
// one's join edge carrying the gap.
func TestDivergingGroup(t *testing.T) {
	g := New()
	g.GroupStart("foo")
	g.AddMineNode(1, 3, mineTarget())
	g.AddMineNode(1, 3, mineTarget())
	g.AddMineNode(2, 3, mineTarget())
	g.GroupEnd()

	want := `digraph {
    0 [ label = "Process Start" ]
    1 [ label = "Process End" ]
    2 [ label = "Start: foo" ]
    3 [ label = "Mining iron-ore" ]
    4 [ label = "Mining iron-ore" ]
    5 [ label = "Mining iron-ore" ]
    6 [ label = "End" ]
    0 -> 2 [ label = "0" ]
    2 -> 3 [ label = "3" ]
    2 -> 5 [ label = "3" ]
    3 -> 4 [ label = "3" ]
    4 -> 6 [ label = "0" ]
    5 -> 6 [ label = "3" ]
    6 -> 1 [ label = "0" ]
}
`
	assert.Equal(t, want, g.GraphvizDot())
}

func TestShortestPathSumsEdgeWeights(t *testing.T) {
	g := New()
	g.GroupStart("foo")
	g.AddMineNode(1, 3, mineTarget())
	g.AddWalkNode(1, 2, PositionRadius{Radius: 1})
	g.GroupEnd()

	weight, ok := g.ShortestPath()
	require.True(t, ok)
	assert.Equal(t, 5.0, weight)
}

func TestEmptyGroupCollapsesWithZeroWeightEdge(t *testing.T) {
	g := New()
	g.GroupStart("empty")
	g.GroupEnd()

	weight, ok := g.ShortestPath()
	require.True(t, ok)
	assert.Equal(t, 0.0, weight)
}

func TestAddNodeWithoutOpenGroupPanics(t *testing.T) {
	g := New()
	assert.Panics(t, func() {
		g.AddMineNode(1, 1, mineTarget())
	})
}

func TestGroupEndWithoutOpenGroupPanics(t *testing.T) {
	g := New()
	assert.Panics(t, func() {
		g.GroupEnd()
	})
}

func TestTaskNodeStatusTransitions(t *testing.T) {
	g := New()
	g.GroupStart("foo")
	id := g.AddMineNode(1, 3, mineTarget())
	g.GroupEnd()

	node, ok := g.Node(id)
	require.True(t, ok)
	assert.Equal(t, Planned, node.Status().Phase)

	node.MarkRunning(42, 100)
	status := node.Status()
	assert.Equal(t, Running, status.Phase)
	assert.EqualValues(t, 42, status.ActionID)

	node.MarkSuccess(150)
	status = node.Status()
	assert.Equal(t, Success, status.Phase)
	assert.EqualValues(t, 42, status.ActionID, "action id survives into the terminal status")
}

func TestTaskNodeMarkFailedRecordsMessage(t *testing.T) {
	g := New()
	g.GroupStart("foo")
	id := g.AddMineNode(1, 3, mineTarget())
	g.GroupEnd()

	node, _ := g.Node(id)
	node.MarkRunning(7, 10)
	node.MarkFailed(20, "no path found")

	status := node.Status()
	assert.Equal(t, Failed, status.Phase)
	assert.Equal(t, "no path found", status.Message)
	assert.EqualValues(t, 7, status.ActionID)
}

func TestEdgesFromReturnsInsertionOrder(t *testing.T) {
	g := New()
	g.GroupStart("foo")
	g.AddMineNode(1, 3, mineTarget())
	g.AddMineNode(2, 3, mineTarget())
	g.GroupEnd()

	children := g.EdgesFrom(2)
	assert.Equal(t, []NodeID{3, 4}, children)
}
