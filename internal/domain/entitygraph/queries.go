package entitygraph

import (
	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
)

// TilesInRect returns every surveyed tile whose unit box intersects rect,
// optionally filtered by name.
func (g *Graph) TilesInRect(rect spatial.Rect, name string) []*world.FactorioTile {
	g.treesMu.RLock()
	results := g.tileTree.Query(rect)
	g.treesMu.RUnlock()

	var out []*world.FactorioTile
	for _, r := range results {
		if name != "" && r.Payload.Name != name {
			continue
		}
		out = append(out, r.Payload)
	}
	return out
}

// EntitiesInRect returns every node whose bounding box intersects rect,
// optionally filtered by name and/or entity type.
func (g *Graph) EntitiesInRect(rect spatial.Rect, name, entityType string) []*EntityNode {
	g.treesMu.RLock()
	results := g.entityTree.Query(rect)
	g.treesMu.RUnlock()

	g.graphMu.RLock()
	defer g.graphMu.RUnlock()

	var out []*EntityNode
	for _, r := range results {
		node, ok := g.nodes[r.Payload]
		if !ok {
			continue
		}
		if name != "" && node.EntityName != name {
			continue
		}
		if entityType != "" && string(node.EntityType) != entityType {
			continue
		}
		out = append(out, node)
	}
	return out
}
