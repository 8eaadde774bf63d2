package entitygraph

import (
	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
)

// beltConnectable implements the GLOSSARY definition: target's entity_type
// is TransportBelt/UndergroundBelt/Splitter and its direction is not the
// opposite of source's direction.
func beltConnectable(source, target *EntityNode) bool {
	if !target.EntityType.BeltConnectable() {
		return false
	}
	return target.Direction != source.Direction.Opposite()
}

func fluidInput(target *EntityNode) bool {
	return target.EntityType.FluidInput()
}

// storageTankOffsets returns the four corner-adjacent offsets from spec.md
// §6.5, direction-dependent.
func storageTankOffsets(d spatial.Direction) [4]spatial.Position {
	if d == spatial.North {
		return [4]spatial.Position{{X: -1, Y: -2}, {X: -2, Y: -1}, {X: 2, Y: 1}, {X: 1, Y: 2}}
	}
	return [4]spatial.Position{{X: 2, Y: -1}, {X: 1, Y: -2}, {X: -2, Y: 1}, {X: -1, Y: 2}}
}

// Connect implements spec.md §4.3's Connect operation: after one or more
// Add calls, build directed edges between nodes per the per-type adjacency
// rules. Duplicate edges are suppressed; neighbor-resolution errors are
// logged and skipped, never propagated.
func (g *Graph) Connect() {
	g.graphMu.Lock()
	defer g.graphMu.Unlock()

	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sortNodeIDs(ids)

	for _, id := range ids {
		node := g.nodes[id]
		switch node.EntityType {
		case world.EntityTypeSplitter:
			g.connectSplitter(node)
		case world.EntityTypeTransportBelt:
			g.connectForward(node)
		case world.EntityTypeOffshorePump:
			g.connectOffshorePump(node)
		case world.EntityTypePipe:
			g.connectPipe(node)
		case world.EntityTypeStorageTank:
			g.connectStorageTank(node)
		case world.EntityTypeUndergroundBelt:
			g.connectUndergroundBelt(node)
		case world.EntityTypePipeToGround:
			g.connectPipeToGround(node)
		}

		if node.dropPosition != nil {
			if target, ok := g.byPosition[spatial.PosFromPosition(*node.dropPosition)]; ok {
				g.addEdge(node.ID, target, 1)
			}
		}
		if node.pickupPosition != nil {
			if source, ok := g.byPosition[spatial.PosFromPosition(*node.pickupPosition)]; ok {
				g.addEdge(source, node.ID, 1)
			}
		}
	}
}

// nodeAt resolves the node whose bounding box contains p. Entities larger
// than one tile (e.g. splitters) are centered away from the grid point a
// neighbor's forward/output projection lands on, so this checks bbox
// containment rather than exact position equality.
func (g *Graph) nodeAt(p spatial.Position) (*EntityNode, bool) {
	if id, ok := g.byPosition[spatial.PosFromPosition(p)]; ok {
		return g.nodes[id], true
	}
	g.treesMu.RLock()
	results := g.entityTree.Query(spatial.UnitRect(p))
	g.treesMu.RUnlock()
	for _, r := range results {
		if node, ok := g.nodes[r.Payload]; ok && node.BoundingBox.ContainsInclusive(p) {
			return node, true
		}
	}
	return nil, false
}

func (g *Graph) connectSplitter(node *EntityNode) {
	leftOffset := spatial.Position{X: -0.5, Y: -1}.Turn(orthogonalOf(node.Direction))
	rightOffset := spatial.Position{X: 0.5, Y: -1}.Turn(orthogonalOf(node.Direction))
	for _, offset := range []spatial.Position{leftOffset, rightOffset} {
		target, ok := g.nodeAt(node.Position.Add(offset))
		if !ok || !beltConnectable(node, target) {
			continue
		}
		g.addEdge(node.ID, target.ID, 1)
	}
}

// orthogonalOf clamps a direction to the nearest orthogonal value so Turn
// never panics on a diagonal entity direction; placed entities in practice
// only ever face the four cardinal directions.
func orthogonalOf(d spatial.Direction) spatial.Direction {
	switch d {
	case spatial.North, spatial.East, spatial.South, spatial.West:
		return d
	default:
		return spatial.North
	}
}

func (g *Graph) connectForward(node *EntityNode) {
	ahead := node.Position.Add(forwardDelta(node.Direction))
	target, ok := g.nodeAt(ahead)
	if !ok || !beltConnectable(node, target) {
		return
	}
	g.addEdge(node.ID, target.ID, 1)
}

func forwardDelta(d spatial.Direction) spatial.Position {
	switch d {
	case spatial.North:
		return spatial.Position{X: 0, Y: -1}
	case spatial.East:
		return spatial.Position{X: 1, Y: 0}
	case spatial.South:
		return spatial.Position{X: 0, Y: 1}
	case spatial.West:
		return spatial.Position{X: -1, Y: 0}
	default:
		return spatial.Position{}
	}
}

func backwardDelta(d spatial.Direction) spatial.Position {
	f := forwardDelta(d)
	return spatial.Position{X: -f.X, Y: -f.Y}
}

func (g *Graph) connectOffshorePump(node *EntityNode) {
	behind := node.Position.Add(backwardDelta(node.Direction))
	target, ok := g.nodeAt(behind)
	if !ok || !fluidInput(target) {
		return
	}
	g.addEdge(node.ID, target.ID, 1)
}

func (g *Graph) connectPipe(node *EntityNode) {
	for _, d := range spatial.Orthogonal() {
		neighbor := node.Position.Add(forwardDelta(d))
		target, ok := g.nodeAt(neighbor)
		if !ok || !fluidInput(target) {
			continue
		}
		g.addEdge(node.ID, target.ID, 1)
		g.addEdge(target.ID, node.ID, 1)
	}
}

func (g *Graph) connectStorageTank(node *EntityNode) {
	for _, offset := range storageTankOffsets(node.Direction) {
		target, ok := g.nodeAt(node.Position.Add(offset))
		if !ok || !fluidInput(target) {
			continue
		}
		g.addEdge(node.ID, target.ID, 1)
		g.addEdge(target.ID, node.ID, 1)
	}
}

func (g *Graph) maxUndergroundDistance(name string) int {
	if proto, ok := g.mirror.EntityPrototype(name); ok && proto.MaxUndergroundDistance > 0 {
		return proto.MaxUndergroundDistance
	}
	return 4
}

func (g *Graph) connectUndergroundBelt(node *EntityNode) {
	maxDist := g.maxUndergroundDistance(node.EntityName)
	back := backwardDelta(node.Direction)
	for dist := 1; dist <= maxDist; dist++ {
		candidatePos := node.Position.Add(spatial.Position{X: back.X * float64(dist), Y: back.Y * float64(dist)})
		target, ok := g.nodeAt(candidatePos)
		if !ok {
			continue
		}
		if target.EntityType == world.EntityTypeUndergroundBelt && target.Direction == node.Direction {
			g.addEdge(target.ID, node.ID, float64(dist))
			break
		}
	}
	g.connectForward(node)
}

func (g *Graph) connectPipeToGround(node *EntityNode) {
	maxDist := g.maxUndergroundDistance(node.EntityName)
	forward := forwardDelta(node.Direction)
	for dist := 1; dist <= maxDist; dist++ {
		candidatePos := node.Position.Add(spatial.Position{X: forward.X * float64(dist), Y: forward.Y * float64(dist)})
		target, ok := g.nodeAt(candidatePos)
		if !ok {
			continue
		}
		if target.EntityType == world.EntityTypePipeToGround && target.Direction == node.Direction.Opposite() {
			g.addEdge(node.ID, target.ID, float64(dist))
			g.addEdge(target.ID, node.ID, float64(dist))
			break
		}
	}
	neighbor, ok := g.nodeAt(node.Position.Add(forward))
	if ok && fluidInput(neighbor) {
		g.addEdge(node.ID, neighbor.ID, 1)
	}
}
