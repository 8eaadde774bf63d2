// Package taskgraph implements the supplemented TaskGraph component
// (SPEC_FULL.md §4.1): a directed graph of per-worker steps with a
// synthetic start/end node and group join semantics, grounded on
// original_source/crates/core/src/graph/task_graph.rs.
package taskgraph

import (
	"strconv"
	"sync"

	"github.com/andrescamacho/factoriobot/internal/domain/world"
)

type edgeRecord struct {
	weight float64
}

type workerGroup struct {
	order   []uint32
	cursors map[uint32]NodeID
}

func newWorkerGroup() *workerGroup {
	return &workerGroup{cursors: make(map[uint32]NodeID)}
}

func (g *workerGroup) set(playerID uint32, node NodeID) {
	if _, exists := g.cursors[playerID]; !exists {
		g.order = append(g.order, playerID)
	}
	g.cursors[playerID] = node
}

// Graph is the directed graph of TaskNodes. Every plan starts life as a
// single "Process Start" -> "Process End" edge; GroupStart/GroupEnd bracket
// concurrent per-worker step chains, and the Add*Node methods extend the
// cursor (outside a group) or a worker's chain (inside one).
type Graph struct {
	mu sync.Mutex

	nodes     map[NodeID]*TaskNode
	order     []NodeID
	outEdges  map[NodeID]map[NodeID]*edgeRecord
	edgeOrder map[NodeID][]NodeID
	nextNode  NodeID

	StartNode NodeID
	EndNode   NodeID
	cursor    NodeID
	groups    []*workerGroup
}

// New builds a Graph containing only its synthetic start and end nodes,
// joined by a single zero-weight edge.
func New() *Graph {
	g := &Graph{
		nodes:     make(map[NodeID]*TaskNode),
		outEdges:  make(map[NodeID]map[NodeID]*edgeRecord),
		edgeOrder: make(map[NodeID][]NodeID),
	}
	g.StartNode = g.addNode(nil, "Process Start", nil, 0)
	g.EndNode = g.addNode(nil, "Process End", nil, 0)
	g.cursor = g.StartNode
	g.addEdge(g.StartNode, g.EndNode, 0)
	return g
}

func (g *Graph) addNode(playerID *uint32, name string, data TaskData, cost float64) NodeID {
	id := g.nextNode
	g.nextNode++
	g.nodes[id] = newTaskNode(id, playerID, name, data, cost)
	g.order = append(g.order, id)
	return id
}

func (g *Graph) addEdge(from, to NodeID, weight float64) {
	if g.outEdges[from] == nil {
		g.outEdges[from] = make(map[NodeID]*edgeRecord)
	}
	g.outEdges[from][to] = &edgeRecord{weight: weight}
	g.edgeOrder[from] = append(g.edgeOrder[from], to)
}

func (g *Graph) removeEdge(from, to NodeID) {
	delete(g.outEdges[from], to)
	targets := g.edgeOrder[from]
	for i, t := range targets {
		if t == to {
			g.edgeOrder[from] = append(targets[:i], targets[i+1:]...)
			break
		}
	}
}

// addToCursor splices node in after the current cursor, keeping the
// cursor -> end edge pointing at the new tail (task_graph.rs's
// add_to_cursor).
func (g *Graph) addToCursor(node NodeID) {
	g.removeEdge(g.cursor, g.EndNode)
	g.addEdge(g.cursor, node, 0)
	g.cursor = node
	g.addEdge(g.cursor, g.EndNode, 0)
}

// addToGroup attaches node after playerID's previous step within the
// innermost open group, or after the group's join point if this is that
// worker's first step (task_graph.rs's add_to_group). Panics if no group
// is open, matching the original's unconditional panic — callers always
// pair Add*Node calls with GroupStart/GroupEnd.
func (g *Graph) addToGroup(playerID uint32, node NodeID, cost float64) {
	if len(g.groups) == 0 {
		panic("taskgraph: Add*Node called with no open group")
	}
	group := g.groups[len(g.groups)-1]
	cursor := g.cursor
	if playerCursor, ok := group.cursors[playerID]; ok {
		cursor = playerCursor
	}
	group.set(playerID, node)
	g.addEdge(cursor, node, cost)
}

// GroupStart opens a group labeled label: a join point every member's first
// step attaches from.
func (g *Graph) GroupStart(label string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	start := g.addNode(nil, "Start: "+label, nil, 0)
	g.addToCursor(start)
	g.groups = append(g.groups, newWorkerGroup())
}

// GroupEnd closes the innermost open group. Every worker's last step gets
// an edge into the new join node, weighted by the gap between that
// worker's cumulative cost and the slowest worker's (task_graph.rs's
// group_end: `max_weight - weight`), so the join node's shortest-path cost
// reflects the slowest worker finishing, not the fastest.
func (g *Graph) GroupEnd() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.groups) == 0 {
		panic("taskgraph: GroupEnd called with no open group")
	}
	group := g.groups[len(g.groups)-1]
	g.groups = g.groups[:len(g.groups)-1]

	groupEnd := g.addNode(nil, "End", nil, 0)
	if len(group.order) == 0 {
		g.addEdge(g.cursor, groupEnd, 0)
	} else {
		weights := make(map[NodeID]float64, len(group.order))
		maxWeight := 0.0
		for i, playerID := range group.order {
			cursor := group.cursors[playerID]
			w, _ := g.shortestPath(g.cursor, cursor)
			weights[cursor] = w
			if i == 0 || w > maxWeight {
				maxWeight = w
			}
		}
		for _, playerID := range group.order {
			cursor := group.cursors[playerID]
			g.addEdge(cursor, groupEnd, maxWeight-weights[cursor])
		}
	}

	g.removeEdge(g.cursor, g.EndNode)
	g.cursor = groupEnd
	g.addEdge(g.cursor, g.EndNode, 0)
}

// AddMineNode adds a mining step for playerID, joined per group rules.
func (g *Graph) AddMineNode(playerID uint32, cost float64, target MineTarget) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	node := g.addNode(&playerID, mineNodeName(target), target, cost)
	g.addToGroup(playerID, node, cost)
	return node
}

// AddWalkNode adds a walk-to-radius step for playerID.
func (g *Graph) AddWalkNode(playerID uint32, cost float64, target PositionRadius) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	node := g.addNode(&playerID, walkNodeName(target), target, cost)
	g.addToGroup(playerID, node, cost)
	return node
}

// AddCraftNode adds a craft step for playerID.
func (g *Graph) AddCraftNode(playerID uint32, cost float64, item InventoryItem) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	node := g.addNode(&playerID, craftNodeName(item), CraftData{Item: item}, cost)
	g.addToGroup(playerID, node, cost)
	return node
}

// AddPlaceNode adds a place-entity step for playerID.
func (g *Graph) AddPlaceNode(playerID uint32, cost float64, entity world.FactorioEntity) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	node := g.addNode(&playerID, placeNodeName(entity), PlaceEntityData{Entity: entity}, cost)
	g.addToGroup(playerID, node, cost)
	return node
}

// AddInsertToInventoryNode adds an insert-to-inventory step for playerID.
func (g *Graph) AddInsertToInventoryNode(playerID uint32, cost float64, location InventoryLocation, item InventoryItem) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	data := InsertToInventoryData{Location: location, Item: item}
	node := g.addNode(&playerID, insertNodeName(location, item), data, cost)
	g.addToGroup(playerID, node, cost)
	return node
}

// AddRemoveFromInventoryNode adds a remove-from-inventory step for playerID.
func (g *Graph) AddRemoveFromInventoryNode(playerID uint32, cost float64, location InventoryLocation, item InventoryItem) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	data := RemoveFromInventoryData{Location: location, Item: item}
	node := g.addNode(&playerID, removeNodeName(location, item), data, cost)
	g.addToGroup(playerID, node, cost)
	return node
}

// Node looks up a node by id.
func (g *Graph) Node(id NodeID) (*TaskNode, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	return n, ok
}

// NodeIDs returns every node id in creation order.
func (g *Graph) NodeIDs() []NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]NodeID, len(g.order))
	copy(out, g.order)
	return out
}

// EdgesFrom returns id's outgoing edge targets in insertion order, for
// TaskExecutor's breadth-first dependency walk.
func (g *Graph) EdgesFrom(id NodeID) []NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	targets := g.edgeOrder[id]
	out := make([]NodeID, len(targets))
	copy(out, targets)
	return out
}

// ShortestPath returns the cumulative weight of the lowest-cost path from
// the start node to the end node.
func (g *Graph) ShortestPath() (float64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shortestPath(g.StartNode, g.EndNode)
}

// ShortestPathBetween returns the cumulative weight of the lowest-cost path
// between two arbitrary nodes.
func (g *Graph) ShortestPathBetween(start, goal NodeID) (float64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shortestPath(start, goal)
}

// Weight is ShortestPathBetween without the found flag, panicking if no
// path exists (task_graph.rs's `weight`, which does the same via
// `.expect(...)`). GroupEnd computes its join weights through shortestPath
// directly, not through Weight.
func (g *Graph) Weight(start, goal NodeID) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.shortestPath(start, goal)
	if !ok {
		panic("taskgraph: no path between nodes")
	}
	return w
}

func formatWeight(w float64) string {
	if w == float64(int64(w)) {
		return strconv.FormatInt(int64(w), 10)
	}
	return strconv.FormatFloat(w, 'f', -1, 64)
}
