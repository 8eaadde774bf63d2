// Package entitygraph implements the directed graph over "interesting"
// placed objects plus the four spatial indices that back it, per spec.md
// §4.3: Add, Remove, Connect (with its per-entity-type adjacency rules),
// Condense, and resource-patch grouping.
package entitygraph

import (
	"sync"

	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
)

// NodeID identifies one EntityNode in the graph. Stable for the node's
// lifetime.
type NodeID uint64

// EntityNode is a graph-relevant placed object.
type EntityNode struct {
	ID            NodeID
	BoundingBox   spatial.Rect
	Position      spatial.Position
	Direction     spatial.Direction
	EntityName    string
	EntityType    world.EntityType
	SpatialHandle spatial.Handle
	MinerOre      string
	Recipe        string

	dropPosition   *spatial.Position
	pickupPosition *spatial.Position
}

type edge struct {
	from, to NodeID
	weight   float64
}

// Graph is the directed graph of EntityNodes plus the four spatial indices
// spec.md §4.3 names: entity, blocked, tile, resource.
type Graph struct {
	mirror *world.Mirror
	log    *logging.Logger

	graphMu sync.RWMutex
	nodes   map[NodeID]*EntityNode
	outEdges map[NodeID]map[NodeID]*edge
	inEdges  map[NodeID]map[NodeID]*edge
	nextNode NodeID

	byPosition map[spatial.Pos]NodeID

	treesMu      sync.RWMutex
	entityTree   *spatial.Index[NodeID]
	blockedTree  *spatial.Index[bool] // payload: minable?
	tileTree     *spatial.Index[*world.FactorioTile]
	resourceTree *spatial.Index[string] // payload: resource name

	resourcesMu sync.RWMutex
	resources   map[string][]spatial.Pos
}

// New builds an empty Graph backed by mirror's prototypes/recipes for
// lookups during connection (mining speed, max_underground_distance, ...).
func New(mirror *world.Mirror, log *logging.Logger) *Graph {
	return &Graph{
		mirror:       mirror,
		log:          log,
		nodes:        make(map[NodeID]*EntityNode),
		outEdges:     make(map[NodeID]map[NodeID]*edge),
		inEdges:      make(map[NodeID]map[NodeID]*edge),
		byPosition:   make(map[spatial.Pos]NodeID),
		entityTree:   spatial.NewEntityIndex[NodeID](),
		blockedTree:  spatial.NewBlockedIndex[bool](),
		tileTree:     spatial.NewTileIndex[*world.FactorioTile](),
		resourceTree: spatial.NewResourceIndex[string](),
		resources:    make(map[string][]spatial.Pos),
	}
}

// NodeCount returns the number of nodes currently in the graph.
func (g *Graph) NodeCount() int {
	g.graphMu.RLock()
	defer g.graphMu.RUnlock()
	return len(g.nodes)
}

// Node returns the node with the given id, if present.
func (g *Graph) Node(id NodeID) (*EntityNode, bool) {
	g.graphMu.RLock()
	defer g.graphMu.RUnlock()
	n, ok := g.nodes[id]
	return n, ok
}

// EntityAt returns the node occupying position p, if any. Used by the
// "entity_at(p) == None after removal" invariant (spec.md §8).
func (g *Graph) EntityAt(p spatial.Position) (*EntityNode, bool) {
	g.graphMu.RLock()
	defer g.graphMu.RUnlock()
	id, ok := g.byPosition[spatial.PosFromPosition(p)]
	if !ok {
		return nil, false
	}
	n := g.nodes[id]
	return n, n != nil
}

func (g *Graph) addEdge(from, to NodeID, weight float64) bool {
	if g.outEdges[from] == nil {
		g.outEdges[from] = make(map[NodeID]*edge)
	}
	if existing, ok := g.outEdges[from][to]; ok {
		_ = existing
		return false
	}
	e := &edge{from: from, to: to, weight: weight}
	g.outEdges[from][to] = e
	if g.inEdges[to] == nil {
		g.inEdges[to] = make(map[NodeID]*edge)
	}
	g.inEdges[to][from] = e
	return true
}

func (g *Graph) removeEdge(from, to NodeID) {
	if m, ok := g.outEdges[from]; ok {
		delete(m, to)
	}
	if m, ok := g.inEdges[to]; ok {
		delete(m, from)
	}
}

func (g *Graph) removeIncidentEdges(id NodeID) {
	for to := range g.outEdges[id] {
		delete(g.inEdges[to], id)
	}
	delete(g.outEdges, id)
	for from := range g.inEdges[id] {
		delete(g.outEdges[from], id)
	}
	delete(g.inEdges, id)
}

// OutDegree returns the number of outgoing edges of a node.
func (g *Graph) OutDegree(id NodeID) int {
	g.graphMu.RLock()
	defer g.graphMu.RUnlock()
	return len(g.outEdges[id])
}

// InDegree returns the number of incoming edges of a node.
func (g *Graph) InDegree(id NodeID) int {
	g.graphMu.RLock()
	defer g.graphMu.RUnlock()
	return len(g.inEdges[id])
}

// Successors returns the node ids and edge weights reachable by one
// outgoing edge.
func (g *Graph) Successors(id NodeID) map[NodeID]float64 {
	g.graphMu.RLock()
	defer g.graphMu.RUnlock()
	out := make(map[NodeID]float64, len(g.outEdges[id]))
	for to, e := range g.outEdges[id] {
		out[to] = e.weight
	}
	return out
}

// Predecessors returns the node ids and edge weights reaching id by one
// incoming edge.
func (g *Graph) Predecessors(id NodeID) map[NodeID]float64 {
	g.graphMu.RLock()
	defer g.graphMu.RUnlock()
	out := make(map[NodeID]float64, len(g.inEdges[id]))
	for from, e := range g.inEdges[id] {
		out[from] = e.weight
	}
	return out
}

// Roots returns every node with no incoming edges, in ascending id order.
func (g *Graph) Roots() []NodeID {
	g.graphMu.RLock()
	defer g.graphMu.RUnlock()
	var roots []NodeID
	for id := range g.nodes {
		if len(g.inEdges[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sortNodeIDs(roots)
	return roots
}

func sortNodeIDs(ids []NodeID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
