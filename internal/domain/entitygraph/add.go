package entitygraph

import (
	"strings"

	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
)

// minableOres is the fixed scan order used to determine a MiningDrill's
// miner_ore (spec.md §4.3): the first ore whose resource set overlaps the
// drill's floored bounding box wins.
var minableOres = []string{"iron-ore", "copper-ore", "coal", "stone", "crude-oil", "uranium-ore"}

// pumpjackDropOffset is the per-direction drop-position correction from
// spec.md §6.4: pumpjacks report drop_position == position, so the real
// drop tile is offset one tile off-center in the facing direction.
func pumpjackDropOffset(d spatial.Direction) spatial.Position {
	switch d {
	case spatial.North:
		return spatial.Position{X: 1, Y: -2}
	case spatial.East:
		return spatial.Position{X: 2, Y: -1}
	case spatial.South:
		return spatial.Position{X: -1, Y: 2}
	case spatial.West:
		return spatial.Position{X: -2, Y: 1}
	default:
		return spatial.Position{}
	}
}

func isLargeRock(name string) bool {
	return strings.Contains(name, "rock-huge") || strings.Contains(name, "rock-big")
}

// AddEntities implements spec.md §4.3's Add operation for a batch of
// surveyed or telemetry-reported entities.
func (g *Graph) AddEntities(entities []world.FactorioEntity) {
	for _, e := range entities {
		g.addOne(e)
	}
}

func (g *Graph) addOne(e world.FactorioEntity) {
	if e.Type == world.EntityTypeResource {
		g.addResource(e)
		return
	}

	if e.Type == world.EntityTypeFlyingText || e.Type == world.EntityTypeFish {
		return
	}
	if e.BoundingBox.Width() == 0 {
		return
	}

	if e.Type != world.EntityTypeResource && e.Type != world.EntityTypeStraightRail && e.Type != world.EntityTypeCurvedRail {
		g.treesMu.Lock()
		g.blockedTree.Insert(e.Type.Minable(), e.BoundingBox)
		g.treesMu.Unlock()
	}

	if e.Name == "pumpjack" && e.DropPosition != nil {
		offset := e.Position.Add(pumpjackDropOffset(e.Direction))
		e.DropPosition = &offset
	}

	if !e.Type.GraphRelevant() && !isLargeRock(e.Name) {
		return
	}

	g.treesMu.Lock()
	handle, ok := g.entityTree.InsertIfNonoverlapping(0, e.BoundingBox)
	g.treesMu.Unlock()
	if !ok {
		if g.log != nil {
			g.log.With(nil).Warnf("entity_graph: overlapping %s at %v dropped", e.Name, e.Position)
		}
		return
	}

	g.graphMu.Lock()
	id := g.nextNode
	g.nextNode++
	node := &EntityNode{
		ID:            id,
		BoundingBox:   e.BoundingBox,
		Position:      e.Position,
		Direction:     e.Direction,
		EntityName:    e.Name,
		EntityType:    e.Type,
		SpatialHandle: handle,
		Recipe:        e.Recipe,
	}
	if e.Type == world.EntityTypeMiningDrill {
		node.MinerOre = g.minerOreFor(e.BoundingBox)
	}
	node.dropPosition = e.DropPosition
	node.pickupPosition = e.PickupPosition
	g.nodes[id] = node
	g.byPosition[spatial.PosFromPosition(e.Position)] = id
	g.graphMu.Unlock()

	g.treesMu.Lock()
	g.entityTree.Remove(handle)
	newHandle, _ := g.entityTree.Insert(id, e.BoundingBox)
	g.treesMu.Unlock()
	g.graphMu.Lock()
	node.SpatialHandle = newHandle
	g.graphMu.Unlock()
}

func (g *Graph) minerOreFor(bbox spatial.Rect) string {
	for _, ore := range minableOres {
		g.resourcesMu.RLock()
		positions := g.resources[ore]
		g.resourcesMu.RUnlock()
		for _, p := range positions {
			if bbox.ContainsInclusive(p.Position()) {
				return ore
			}
		}
	}
	return ""
}

func (g *Graph) addResource(e world.FactorioEntity) {
	p := spatial.PosFromPosition(e.Position)

	g.resourcesMu.Lock()
	g.resources[e.Name] = append(g.resources[e.Name], p)
	g.resourcesMu.Unlock()

	g.treesMu.Lock()
	g.resourceTree.Insert(e.Name, spatial.UnitRect(e.Position))
	g.treesMu.Unlock()
}

// AddTiles implements the tile half of chunk telemetry ingestion: each
// surveyed tile is inserted into the tile tree, keyed by its own unit rect.
func (g *Graph) AddTiles(tiles []world.FactorioTile) {
	g.treesMu.Lock()
	defer g.treesMu.Unlock()
	for _, t := range tiles {
		tile := t
		g.tileTree.Insert(&tile, spatial.UnitRect(t.Position.Position()))
	}
}

// RemoveEntity implements spec.md §4.3's Remove operation: resolve the
// node occupying position, drop its incident edges, remove it from the
// entity tree, sweep the blocked tree for matching bboxes, and (for
// resources) remove the position from the resource tree and set.
func (g *Graph) RemoveEntity(position spatial.Position) {
	g.graphMu.Lock()
	posKey := spatial.PosFromPosition(position)
	id, ok := g.byPosition[posKey]
	node := g.nodes[id]
	if ok {
		delete(g.byPosition, posKey)
		delete(g.nodes, id)
		g.removeIncidentEdges(id)
	}
	g.graphMu.Unlock()

	if ok {
		g.treesMu.Lock()
		g.entityTree.Remove(node.SpatialHandle)
		blockedMatches := g.blockedTree.Query(node.BoundingBox)
		for _, m := range blockedMatches {
			if m.Bbox.CloseTo(node.BoundingBox, spatial.QuadtreeEpsilon) {
				g.blockedTree.Remove(m.Handle)
			}
		}
		g.treesMu.Unlock()
	}

	g.resourcesMu.Lock()
	for name, positions := range g.resources {
		for i, p := range positions {
			if p == posKey {
				g.resources[name] = append(positions[:i], positions[i+1:]...)
				break
			}
		}
	}
	g.resourcesMu.Unlock()

	g.treesMu.Lock()
	resourceMatches := g.resourceTree.Query(spatial.UnitRect(position))
	for _, m := range resourceMatches {
		if m.Bbox.CloseTo(spatial.UnitRect(position), spatial.QuadtreeEpsilon) {
			g.resourceTree.Remove(m.Handle)
		}
	}
	g.treesMu.Unlock()
}
