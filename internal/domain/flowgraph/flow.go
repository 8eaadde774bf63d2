// Package flowgraph implements the derived graph whose edges are typed
// production-rate vectors, computed by a depth-first traversal of the
// entity graph rooted at producers (spec.md §4.4).
package flowgraph

import (
	"sync"

	"github.com/andrescamacho/factoriobot/internal/domain/entitygraph"
	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
)

// Rate is one (material, rate-per-second) production line.
type Rate struct {
	Material string
	Rate     float64
}

// Edge is either a single combined rate list, or a left/right split for
// belt lane projection (spec.md's `Single`/`Double` FlowEdge).
type Edge struct {
	Double bool
	Single []Rate
	Left   []Rate
	Right  []Rate
}

// Node mirrors the entity node it derives from, created lazily on first
// flow-edge attachment.
type Node struct {
	ID            entitygraph.NodeID
	Position      spatial.Position
	Direction     spatial.Direction
	EntityName    string
	EntityType    world.EntityType
	SpatialHandle spatial.Handle
	MinerOre      string
}

// Graph is the flow graph: nodes keyed by the EntityGraph node id they
// derive from, edges annotated with typed rate vectors, plus its own
// spatial index for node-at-position lookups.
type Graph struct {
	entities *entitygraph.Graph
	mirror   *world.Mirror

	mu       sync.RWMutex
	nodes    map[entitygraph.NodeID]*Node
	outEdges map[entitygraph.NodeID]map[entitygraph.NodeID]Edge

	index *spatial.Index[entitygraph.NodeID]
}

// New builds an empty flow graph over entities, reading prototype/recipe
// data from mirror.
func New(entities *entitygraph.Graph, mirror *world.Mirror) *Graph {
	return &Graph{
		entities: entities,
		mirror:   mirror,
		nodes:    make(map[entitygraph.NodeID]*Node),
		outEdges: make(map[entitygraph.NodeID]map[entitygraph.NodeID]Edge),
		index:    spatial.NewEntityIndex[entitygraph.NodeID](),
	}
}

func (g *Graph) getOrCreateNode(en *entitygraph.EntityNode) *Node {
	if n, ok := g.nodes[en.ID]; ok {
		return n
	}
	handle, _ := g.index.InsertIfNonoverlapping(en.ID, en.BoundingBox)
	n := &Node{
		ID:            en.ID,
		Position:      en.Position,
		Direction:     en.Direction,
		EntityName:    en.EntityName,
		EntityType:    en.EntityType,
		SpatialHandle: handle,
		MinerOre:      en.MinerOre,
	}
	g.nodes[en.ID] = n
	return n
}

func addRate(rates []Rate, r Rate) []Rate {
	for i := range rates {
		if rates[i].Material == r.Material {
			rates[i].Rate += r.Rate
			return rates
		}
	}
	return append(rates, r)
}

func sumRates(edges []Edge) []Rate {
	var out []Rate
	for _, e := range edges {
		if e.Double {
			for _, r := range e.Left {
				out = addRate(out, r)
			}
			for _, r := range e.Right {
				out = addRate(out, r)
			}
		} else {
			for _, r := range e.Single {
				out = addRate(out, r)
			}
		}
	}
	return out
}

// divideFlowrate halves each material's rate by 2*divisor for BOTH the
// left and right lane, not once overall: a splitter fed by a single
// 0.5/s drill edge through one belt yields 0.125/lane, not 0.25/lane.
func divideFlowrate(incoming []Rate, divisor int) Edge {
	var left, right []Rate
	for _, r := range incoming {
		half := r.Rate / float64(2*divisor)
		left = addRate(left, Rate{Material: r.Material, Rate: half})
		right = addRate(right, Rate{Material: r.Material, Rate: half})
	}
	return Edge{Double: true, Left: left, Right: right}
}

// Update recomputes flow edges for every reachable subgraph rooted at a
// producer node (OffshorePump, or MiningDrill with a known miner_ore).
// Idempotent: callable repeatedly as the entity graph changes.
func (g *Graph) Update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes = make(map[entitygraph.NodeID]*Node)
	g.outEdges = make(map[entitygraph.NodeID]map[entitygraph.NodeID]Edge)
	g.index = spatial.NewEntityIndex[entitygraph.NodeID]()

	for _, rootID := range g.entities.Roots() {
		root, ok := g.entities.Node(rootID)
		if !ok {
			continue
		}
		if !isProducer(root) {
			continue
		}
		g.dfs(rootID, make(map[entitygraph.NodeID]bool))
	}
}

func isProducer(n *entitygraph.EntityNode) bool {
	if n.EntityType == world.EntityTypeOffshorePump {
		return true
	}
	return n.EntityType == world.EntityTypeMiningDrill && n.MinerOre != ""
}

func (g *Graph) incomingEdges(position spatial.Position) []Edge {
	id, ok := g.entities.EntityAt(position)
	if !ok {
		return nil
	}
	var edges []Edge
	for predID := range g.entities.Predecessors(id.ID) {
		if m, ok := g.outEdges[predID]; ok {
			if e, ok := m[id.ID]; ok {
				edges = append(edges, e)
			}
		}
	}
	return edges
}

func (g *Graph) incomingEdgeCount(position spatial.Position) int {
	node, ok := g.entities.EntityAt(position)
	if !ok {
		return 0
	}
	return g.entities.InDegree(node.ID)
}

// incomingBySide splits incoming flow into left/right lanes per spec.md
// §4.4 rule 7: same-direction (or sole) incoming splits evenly; incoming
// from the clockwise neighbor goes entirely right; from the
// counter-clockwise neighbor, entirely left.
func (g *Graph) incomingBySide(self *entitygraph.EntityNode) ([]Rate, []Rate) {
	var left, right []Rate
	preds := g.entities.Predecessors(self.ID)
	count := len(preds)
	for predID := range preds {
		predNode, ok := g.entities.Node(predID)
		if !ok {
			continue
		}
		m, ok := g.outEdges[predID]
		if !ok {
			continue
		}
		edge, ok := m[self.ID]
		if !ok {
			continue
		}
		switch {
		case predNode.Direction == self.Direction || count == 1:
			if edge.Double {
				for _, r := range edge.Left {
					left = addRate(left, r)
				}
				for _, r := range edge.Right {
					right = addRate(right, r)
				}
			} else {
				for _, r := range edge.Single {
					left = addRate(left, Rate{Material: r.Material, Rate: r.Rate / 2})
					right = addRate(right, Rate{Material: r.Material, Rate: r.Rate / 2})
				}
			}
		case predNode.Direction == self.Direction.Clockwise():
			for _, r := range sumRates([]Edge{edge}) {
				right = addRate(right, r)
			}
		case predNode.Direction == self.Direction.CounterClockwise():
			for _, r := range sumRates([]Edge{edge}) {
				left = addRate(left, r)
			}
		default:
			for _, r := range sumRates([]Edge{edge}) {
				left = addRate(left, r)
			}
		}
	}
	return left, right
}

func (g *Graph) setEdge(from, to *entitygraph.EntityNode, edge Edge) {
	g.getOrCreateNode(from)
	g.getOrCreateNode(to)
	if g.outEdges[from.ID] == nil {
		g.outEdges[from.ID] = make(map[entitygraph.NodeID]Edge)
	}
	g.outEdges[from.ID][to.ID] = edge
}

func (g *Graph) dfs(nodeID entitygraph.NodeID, visited map[entitygraph.NodeID]bool) {
	if visited[nodeID] {
		return
	}
	visited[nodeID] = true

	source, ok := g.entities.Node(nodeID)
	if !ok {
		return
	}

	for targetID := range g.entities.Successors(nodeID) {
		target, ok := g.entities.Node(targetID)
		if !ok {
			continue
		}
		g.computeEdge(source, target)
		g.dfs(targetID, visited)
	}
}

func (g *Graph) computeEdge(source, target *entitygraph.EntityNode) {
	switch source.EntityType {
	case world.EntityTypeMiningDrill:
		rate := g.miningRate(source)
		g.setEdge(source, target, Edge{Single: []Rate{{Material: source.MinerOre, Rate: rate}}})

	case world.EntityTypeOffshorePump:
		g.setEdge(source, target, Edge{Single: []Rate{{Material: "water", Rate: 1.0}}})

	case world.EntityTypeAssemblingMachine:
		recipe, ok := g.mirror.Recipe(source.Recipe)
		if !ok {
			return
		}
		var out []Rate
		for _, p := range recipe.Products {
			out = append(out, Rate{Material: p.Name, Rate: p.Amount / 3.2})
		}
		g.setEdge(source, target, Edge{Single: out})

	case world.EntityTypeSplitter:
		incoming := sumRates(g.incomingEdges(source.Position))
		outgoingCount := g.entities.OutDegree(source.ID)
		if outgoingCount == 0 {
			outgoingCount = 1
		}
		g.setEdge(source, target, divideFlowrate(incoming, outgoingCount))

	case world.EntityTypeFurnace:
		incoming := sumRates(g.incomingEdges(source.Position))
		out := furnaceOutputs(incoming)
		g.setEdge(source, target, Edge{Single: out})

	case world.EntityTypeContainer, world.EntityTypeLogisticContainer, world.EntityTypePipeToGround,
		world.EntityTypeStorageTank, world.EntityTypePipe, world.EntityTypeInserter:
		incoming := sumRates(g.incomingEdges(source.Position))
		g.setEdge(source, target, Edge{Single: incoming})

	case world.EntityTypeTransportBelt, world.EntityTypeUndergroundBelt:
		left, right := g.incomingBySide(source)
		if target.EntityType.BeltConnectable() {
			g.setEdge(source, target, Edge{Double: true, Left: left, Right: right})
		} else if target.EntityType == world.EntityTypeInserter {
			combined := append([]Rate(nil), left...)
			for _, r := range right {
				combined = addRate(combined, r)
			}
			g.setEdge(source, target, Edge{Single: combined})
		}
	}
}

func (g *Graph) miningRate(drill *entitygraph.EntityNode) float64 {
	drillProto, ok := g.mirror.EntityPrototype(drill.EntityName)
	if !ok || drillProto.MiningSpeed == nil {
		return 0
	}
	oreProto, ok := g.mirror.EntityPrototype(drill.MinerOre)
	if !ok || oreProto.MiningTime == nil || *oreProto.MiningTime == 0 {
		return 0
	}
	return *drillProto.MiningSpeed / *oreProto.MiningTime
}

var furnaceRecipes = map[string]string{
	"iron-ore":   "iron-plate",
	"copper-ore": "copper-plate",
	"stone":      "stone-brick",
	"iron-plate": "steel-plate",
}

func furnaceOutputs(incoming []Rate) []Rate {
	var out []Rate
	for _, r := range incoming {
		if r.Material == "coal" {
			continue
		}
		product, ok := furnaceRecipes[r.Material]
		if !ok {
			continue
		}
		out = addRate(out, Rate{Material: product, Rate: 1.0 / 3.2})
	}
	return out
}

// Node returns the flow node for the given entity-graph node id, if any
// flow edge has touched it.
func (g *Graph) Node(id entitygraph.NodeID) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns the flow edge from `from` to `to`, if computed.
func (g *Graph) Edge(from, to entitygraph.NodeID) (Edge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m, ok := g.outEdges[from]
	if !ok {
		return Edge{}, false
	}
	e, ok := m[to]
	return e, ok
}

// NodeAt resolves the flow node occupying position, backed by the flow
// graph's own spatial index.
func (g *Graph) NodeAt(position spatial.Position) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	results := g.index.Query(spatial.UnitRect(position))
	for _, r := range results {
		if n, ok := g.nodes[r.Payload]; ok {
			return n, true
		}
	}
	return nil, false
}
