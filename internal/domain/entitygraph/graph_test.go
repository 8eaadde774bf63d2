package entitygraph

import (
	"testing"

	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func beltEntity(x, y float64) world.FactorioEntity {
	pos := spatial.Position{X: x, Y: y}
	return world.FactorioEntity{
		Name:        "transport-belt",
		Type:        world.EntityTypeTransportBelt,
		Position:    pos,
		BoundingBox: spatial.UnitRect(pos),
		Direction:   spatial.South,
	}
}

func splitterEntity(x, y float64) world.FactorioEntity {
	pos := spatial.Position{X: x, Y: y}
	return world.FactorioEntity{
		Name:        "splitter",
		Type:        world.EntityTypeSplitter,
		Position:    pos,
		BoundingBox: spatial.NewRect(spatial.Position{X: x - 1, Y: y - 0.5}, spatial.Position{X: x + 1, Y: y + 0.5}),
		Direction:   spatial.South,
	}
}

func newTestGraph() *Graph {
	return New(world.New(), logging.NewNop())
}

func TestScenarioASplitterEdges(t *testing.T) {
	g := newTestGraph()
	g.AddEntities([]world.FactorioEntity{
		beltEntity(0.5, 0.5),
		beltEntity(1.5, 0.5),
		splitterEntity(1, 1.5),
		beltEntity(0.5, 2.5),
		beltEntity(1.5, 2.5),
	})
	g.Connect()

	require.Equal(t, 5, g.NodeCount())

	dot := g.GraphvizDot()
	assert.Contains(t, dot, `0 [ label = "transport-belt at [0.5, 0.5]" ]`)
	assert.Contains(t, dot, `2 [ label = "splitter at [1, 1.5]" ]`)
	assert.Contains(t, dot, "0 -> 2")
	assert.Contains(t, dot, "1 -> 2")
	assert.Contains(t, dot, "2 -> 3")
	assert.Contains(t, dot, "2 -> 4")
}

func TestScenarioBBeltChainCondensation(t *testing.T) {
	g := newTestGraph()
	var entities []world.FactorioEntity
	for y := 0; y < 5; y++ {
		entities = append(entities, beltEntity(0.5, float64(y)+0.5))
	}
	g.AddEntities(entities)
	g.Connect()

	condensed := g.Condense()
	assert.Len(t, condensed.Nodes, 2)
	require.Len(t, condensed.Edges, 1)
	assert.Equal(t, 4.0, condensed.Edges[0].Weight)
}

func TestConnectIsIdempotent(t *testing.T) {
	g := newTestGraph()
	g.AddEntities([]world.FactorioEntity{beltEntity(0.5, 0.5), beltEntity(0.5, 1.5)})
	g.Connect()
	edgesBefore := len(g.outEdges[0])
	g.Connect()
	edgesAfter := len(g.outEdges[0])
	assert.Equal(t, edgesBefore, edgesAfter)
}

func TestRemoveEntityClearsPositionLookup(t *testing.T) {
	g := newTestGraph()
	pos := spatial.Position{X: 3, Y: 3}
	g.AddEntities([]world.FactorioEntity{beltEntity(pos.X, pos.Y)})

	_, ok := g.EntityAt(pos)
	require.True(t, ok)

	g.RemoveEntity(pos)

	_, ok = g.EntityAt(pos)
	assert.False(t, ok)
}

func TestResourcePatchesSortedByDescendingSize(t *testing.T) {
	g := newTestGraph()
	var entities []world.FactorioEntity
	// A 3-cell patch at origin and a single-cell patch far away.
	for _, p := range []spatial.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}} {
		entities = append(entities, world.FactorioEntity{Name: "iron-ore", Type: world.EntityTypeResource, Position: p})
	}
	entities = append(entities, world.FactorioEntity{Name: "iron-ore", Type: world.EntityTypeResource, Position: spatial.Position{X: 100, Y: 100}})
	g.AddEntities(entities)

	patches := g.ResourcePatches("iron-ore")
	require.Len(t, patches, 2)
	assert.Equal(t, 3, len(patches[0].Positions))
	assert.Equal(t, 1, len(patches[1].Positions))
}

func TestFindFreeRectReturnsClosestFit(t *testing.T) {
	patch := &ResourcePatch{Positions: []spatial.Pos{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1},
	}}
	pos, ok := patch.FindFreeRect(2, 2, spatial.Pos{X: 0, Y: 0})
	require.True(t, ok)
	assert.Equal(t, spatial.Pos{X: 0, Y: 0}, pos)

	_, ok = patch.FindFreeRect(3, 3, spatial.Pos{X: 0, Y: 0})
	assert.False(t, ok)
}
