package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/factoriobot/internal/domain/entitygraph"
	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
	"github.com/cucumber/godog"
)

type entityGraphContext struct {
	graph     *entitygraph.Graph
	condensed *entitygraph.Condensed
	dot       string
}

func (ec *entityGraphContext) reset() {
	ec.graph = entitygraph.New(world.New(), logging.NewNop())
	ec.condensed = nil
	ec.dot = ""
}

func beltAt(x, y float64) world.FactorioEntity {
	pos := spatial.Position{X: x, Y: y}
	return world.FactorioEntity{
		Name:        "transport-belt",
		Type:        world.EntityTypeTransportBelt,
		Position:    pos,
		BoundingBox: spatial.UnitRect(pos),
		Direction:   spatial.South,
	}
}

func splitterAt(x, y float64) world.FactorioEntity {
	pos := spatial.Position{X: x, Y: y}
	return world.FactorioEntity{
		Name:        "splitter",
		Type:        world.EntityTypeSplitter,
		Position:    pos,
		BoundingBox: spatial.NewRect(spatial.Position{X: x - 1, Y: y - 0.5}, spatial.Position{X: x + 1, Y: y + 0.5}),
		Direction:   spatial.South,
	}
}

func (ec *entityGraphContext) anInputTransportBeltAtFacingSouth(x, y float64) error {
	ec.graph.AddEntities([]world.FactorioEntity{beltAt(x, y)})
	return nil
}

func (ec *entityGraphContext) anOutputTransportBeltAtFacingSouth(x, y float64) error {
	ec.graph.AddEntities([]world.FactorioEntity{beltAt(x, y)})
	return nil
}

func (ec *entityGraphContext) aSplitterAtFacingSouth(x, y float64) error {
	ec.graph.AddEntities([]world.FactorioEntity{splitterAt(x, y)})
	return nil
}

func (ec *entityGraphContext) inlineTransportBeltsFacingSouthStartingAt(count int, x, y float64) error {
	entities := make([]world.FactorioEntity, 0, count)
	for i := 0; i < count; i++ {
		entities = append(entities, beltAt(x, y+float64(i)))
	}
	ec.graph.AddEntities(entities)
	return nil
}

func (ec *entityGraphContext) theEntityGraphConnectsAllEntities() error {
	ec.graph.Connect()
	ec.dot = ec.graph.GraphvizDot()
	return nil
}

func (ec *entityGraphContext) theEntityGraphCondenses() error {
	ec.condensed = ec.graph.Condense()
	return nil
}

func (ec *entityGraphContext) theGraphShouldContainNodes(count int) error {
	if ec.graph.NodeCount() != count {
		return fmt.Errorf("expected %d nodes, got %d", count, ec.graph.NodeCount())
	}
	return nil
}

func (ec *entityGraphContext) theGraphvizDumpShouldContain(fragment string) error {
	if !strings.Contains(ec.dot, fragment) {
		return fmt.Errorf("expected graphviz dump to contain %q, got:\n%s", fragment, ec.dot)
	}
	return nil
}

func (ec *entityGraphContext) theCondensedGraphShouldContainNodes(count int) error {
	if ec.condensed == nil {
		return fmt.Errorf("graph has not been condensed yet")
	}
	if len(ec.condensed.Nodes) != count {
		return fmt.Errorf("expected %d condensed nodes, got %d", count, len(ec.condensed.Nodes))
	}
	return nil
}

func (ec *entityGraphContext) theCondensedGraphShouldContainEdges(count int) error {
	if ec.condensed == nil {
		return fmt.Errorf("graph has not been condensed yet")
	}
	if len(ec.condensed.Edges) != count {
		return fmt.Errorf("expected %d condensed edges, got %d", count, len(ec.condensed.Edges))
	}
	return nil
}

func (ec *entityGraphContext) theCondensedEdgeWeightShouldBe(weight float64) error {
	if ec.condensed == nil || len(ec.condensed.Edges) == 0 {
		return fmt.Errorf("no condensed edges to check")
	}
	if ec.condensed.Edges[0].Weight != weight {
		return fmt.Errorf("expected condensed edge weight %v, got %v", weight, ec.condensed.Edges[0].Weight)
	}
	return nil
}

// InitializeEntityGraphScenario registers Scenario A (splitter edges) and
// Scenario B (belt chain condensation) step definitions.
func InitializeEntityGraphScenario(sc *godog.ScenarioContext) {
	ec := &entityGraphContext{}

	sc.Before(func(ctxIn context.Context, scenario *godog.Scenario) (context.Context, error) {
		ec.reset()
		return ctxIn, nil
	})

	sc.Step(`^an input transport belt at ([0-9.]+), ([0-9.]+) facing south$`, ec.anInputTransportBeltAtFacingSouth)
	sc.Step(`^an output transport belt at ([0-9.]+), ([0-9.]+) facing south$`, ec.anOutputTransportBeltAtFacingSouth)
	sc.Step(`^a splitter at ([0-9.]+), ([0-9.]+) facing south$`, ec.aSplitterAtFacingSouth)
	sc.Step(`^(\d+) inline transport belts facing south starting at ([0-9.]+), ([0-9.]+)$`, ec.inlineTransportBeltsFacingSouthStartingAt)
	sc.Step(`^the entity graph connects all entities$`, ec.theEntityGraphConnectsAllEntities)
	sc.Step(`^the entity graph condenses$`, ec.theEntityGraphCondenses)
	sc.Step(`^the graph should contain (\d+) nodes$`, ec.theGraphShouldContainNodes)
	sc.Step(`^the graphviz dump should contain "([^"]*)"$`, ec.theGraphvizDumpShouldContain)
	sc.Step(`^the condensed graph should contain (\d+) nodes$`, ec.theCondensedGraphShouldContainNodes)
	sc.Step(`^the condensed graph should contain (\d+) edge$`, ec.theCondensedGraphShouldContainEdges)
	sc.Step(`^the condensed edge weight should be ([0-9.]+)$`, ec.theCondensedEdgeWeightShouldBe)
}
