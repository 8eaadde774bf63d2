package steps

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factoriobot/internal/domain/entitygraph"
	"github.com/andrescamacho/factoriobot/internal/domain/flowgraph"
	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
	"github.com/cucumber/godog"
)

type flowGraphContext struct {
	mirror   *world.Mirror
	entities *entitygraph.Graph
	flow     *flowgraph.Graph
	dropPos  map[string]spatial.Position
}

func (fc *flowGraphContext) reset() {
	fc.mirror = world.New()
	fc.entities = entitygraph.New(fc.mirror, logging.NewNop())
	fc.flow = nil
	fc.dropPos = make(map[string]spatial.Position)
}

func floatPtr(v float64) *float64 { return &v }

func (fc *flowGraphContext) theEntityPrototypeIsAMiningDrillWithMiningSpeed(name string, speed float64) error {
	fc.mirror.UpdateEntityPrototypes([]*world.FactorioEntityPrototype{
		{Name: name, Type: world.EntityTypeMiningDrill, MiningSpeed: floatPtr(speed)},
	})
	return nil
}

func (fc *flowGraphContext) theEntityPrototypeIsAResourceWithMiningTime(name string, miningTime float64) error {
	fc.mirror.UpdateEntityPrototypes([]*world.FactorioEntityPrototype{
		{Name: name, Type: world.EntityTypeResource, MiningTime: floatPtr(miningTime)},
	})
	return nil
}

func (fc *flowGraphContext) aResourceAt(name string, x, y float64) error {
	fc.entities.AddEntities([]world.FactorioEntity{
		{Name: name, Type: world.EntityTypeResource, Position: spatial.Position{X: x, Y: y}},
	})
	return nil
}

func (fc *flowGraphContext) aMiningDrillAtFacingSouthWithDropPosition(name string, x, y, dropX, dropY float64) error {
	pos := spatial.Position{X: x, Y: y}
	drop := spatial.Position{X: dropX, Y: dropY}
	fc.entities.AddEntities([]world.FactorioEntity{
		{
			Name:         name,
			Type:         world.EntityTypeMiningDrill,
			Position:     pos,
			BoundingBox:  spatial.UnitRect(pos),
			Direction:    spatial.South,
			DropPosition: &drop,
		},
	})
	return nil
}

func (fc *flowGraphContext) aTransportBeltAtFacingSouth(x, y float64) error {
	pos := spatial.Position{X: x, Y: y}
	fc.entities.AddEntities([]world.FactorioEntity{
		{
			Name:        "transport-belt",
			Type:        world.EntityTypeTransportBelt,
			Position:    pos,
			BoundingBox: spatial.UnitRect(pos),
			Direction:   spatial.South,
		},
	})
	return nil
}

func (fc *flowGraphContext) theEntityGraphConnectsAllEntitiesFlow() error {
	fc.entities.Connect()
	return nil
}

func (fc *flowGraphContext) theFlowGraphUpdates() error {
	fc.flow = flowgraph.New(fc.entities, fc.mirror)
	fc.flow.Update()
	return nil
}

func (fc *flowGraphContext) theEdgeFromTheDrillToTheFirstBeltShouldCarryAtRate(material string, rate float64) error {
	drill, ok := fc.entities.EntityAt(spatial.Position{X: 0.5, Y: -1.5})
	if !ok {
		return fmt.Errorf("no entity at drill position")
	}
	belt, ok := fc.entities.EntityAt(spatial.Position{X: 0.5, Y: 0.5})
	if !ok {
		return fmt.Errorf("no entity at first belt position")
	}
	edge, ok := fc.flow.Edge(drill.ID, belt.ID)
	if !ok {
		return fmt.Errorf("no flow edge from drill to first belt")
	}
	if edge.Double || len(edge.Single) != 1 {
		return fmt.Errorf("expected a single-direction edge with one material, got %+v", edge)
	}
	if edge.Single[0].Material != material {
		return fmt.Errorf("expected material %q, got %q", material, edge.Single[0].Material)
	}
	if edge.Single[0].Rate != rate {
		return fmt.Errorf("expected rate %v, got %v", rate, edge.Single[0].Rate)
	}
	return nil
}

func (fc *flowGraphContext) theEdgeFromTheFirstBeltToTheSecondBeltShouldSplitEvenlyAtRate(rate float64) error {
	belt, ok := fc.entities.EntityAt(spatial.Position{X: 0.5, Y: 0.5})
	if !ok {
		return fmt.Errorf("no entity at first belt position")
	}
	nextBelt, ok := fc.entities.EntityAt(spatial.Position{X: 0.5, Y: 1.5})
	if !ok {
		return fmt.Errorf("no entity at second belt position")
	}
	edge, ok := fc.flow.Edge(belt.ID, nextBelt.ID)
	if !ok {
		return fmt.Errorf("no flow edge between belts")
	}
	if !edge.Double || len(edge.Left) != 1 || len(edge.Right) != 1 {
		return fmt.Errorf("expected a double-direction edge with split lanes, got %+v", edge)
	}
	if edge.Left[0].Rate != rate || edge.Right[0].Rate != rate {
		return fmt.Errorf("expected both lanes at rate %v, got left=%v right=%v", rate, edge.Left[0].Rate, edge.Right[0].Rate)
	}
	return nil
}

// InitializeFlowGraphScenario registers Scenario C (mining drill flow) step
// definitions.
func InitializeFlowGraphScenario(sc *godog.ScenarioContext) {
	fc := &flowGraphContext{}

	sc.Before(func(ctxIn context.Context, scenario *godog.Scenario) (context.Context, error) {
		fc.reset()
		return ctxIn, nil
	})

	sc.Step(`^the entity prototype "([^"]*)" is a mining drill with mining speed ([0-9.]+)$`, fc.theEntityPrototypeIsAMiningDrillWithMiningSpeed)
	sc.Step(`^the entity prototype "([^"]*)" is a resource with mining time ([0-9.]+)$`, fc.theEntityPrototypeIsAResourceWithMiningTime)
	sc.Step(`^a resource "([^"]*)" at ([0-9.-]+), ([0-9.-]+)$`, fc.aResourceAt)
	sc.Step(`^a mining drill "([^"]*)" at ([0-9.-]+), ([0-9.-]+) facing south with drop position ([0-9.-]+), ([0-9.-]+)$`, fc.aMiningDrillAtFacingSouthWithDropPosition)
	sc.Step(`^a transport belt at ([0-9.-]+), ([0-9.-]+) facing south$`, fc.aTransportBeltAtFacingSouth)
	sc.Step(`^the flow's entity graph connects all entities$`, fc.theEntityGraphConnectsAllEntitiesFlow)
	sc.Step(`^the flow graph updates$`, fc.theFlowGraphUpdates)
	sc.Step(`^the edge from the drill to the first belt should carry "([^"]*)" at rate ([0-9.]+)$`, fc.theEdgeFromTheDrillToTheFirstBeltShouldCarryAtRate)
	sc.Step(`^the edge from the first belt to the second belt should split evenly at rate ([0-9.]+)$`, fc.theEdgeFromTheFirstBeltToTheSecondBeltShouldSplitEvenlyAtRate)
}
