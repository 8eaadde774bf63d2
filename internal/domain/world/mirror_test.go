package world

import (
	"testing"

	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerChangedPositionPreservesOtherFields(t *testing.T) {
	m := New()
	m.PlayerChangedDistance(1, 10, 20, 1, 1, 1, 30)
	m.PlayerChangedPosition(1, spatial.Position{X: 5, Y: 6})

	p, ok := m.Player(1)
	require.True(t, ok)
	assert.Equal(t, spatial.Position{X: 5, Y: 6}, p.Position)
	assert.Equal(t, 10.0, p.ReachDistance)
	assert.Equal(t, 30.0, p.ResourceReachDistance)
}

func TestPlayerSnapshotsAreNeverMutatedInPlace(t *testing.T) {
	m := New()
	m.PlayerChangedPosition(1, spatial.Position{X: 0, Y: 0})
	first, _ := m.Player(1)

	m.PlayerChangedPosition(1, spatial.Position{X: 1, Y: 1})
	second, _ := m.Player(1)

	assert.NotSame(t, first, second)
	assert.Equal(t, spatial.Position{X: 0, Y: 0}, first.Position, "prior snapshot must not be mutated")
}

func TestRemovePlayerDropsEntry(t *testing.T) {
	m := New()
	m.PlayerChangedPosition(7, spatial.Position{})
	m.RemovePlayer(7)

	_, ok := m.Player(7)
	assert.False(t, ok)
}

func TestNextActionIDWrapsModulo1000(t *testing.T) {
	m := New()
	m.nextActionID = 999
	first := m.NextActionID()
	second := m.NextActionID()
	assert.Equal(t, uint32(999), first)
	assert.Equal(t, uint32(0), second)
}

func TestActionCompletionRoundTrip(t *testing.T) {
	m := New()
	m.CreateAction(7)
	m.CompleteAction(7, true, "")

	action, ok := m.DrainAction(7)
	require.True(t, ok)
	assert.Equal(t, ActionOk, action.Outcome)

	_, ok = m.Action(7)
	assert.False(t, ok, "drain must remove the entry")
}

type fakeGraphSink struct {
	added   []FactorioEntity
	removed []spatial.Position
	tiles   []FactorioTile
	connects int
}

func (f *fakeGraphSink) AddEntities(entities []FactorioEntity) { f.added = append(f.added, entities...) }
func (f *fakeGraphSink) RemoveEntity(position spatial.Position) {
	f.removed = append(f.removed, position)
}
func (f *fakeGraphSink) AddTiles(tiles []FactorioTile) { f.tiles = append(f.tiles, tiles...) }
func (f *fakeGraphSink) Connect()                      { f.connects++ }

func TestEntityEventsForwardToEntityGraph(t *testing.T) {
	m := New()
	sink := &fakeGraphSink{}
	m.AttachEntityGraph(sink)

	entity := FactorioEntity{Name: "transport-belt", Type: EntityTypeTransportBelt}
	m.OnEntityCreated(entity)
	m.OnEntityDeleted(spatial.Position{X: 1, Y: 1})
	m.UpdateChunkEntities([]FactorioEntity{entity})
	m.UpdateChunkTiles([]FactorioTile{{Name: "grass"}})

	assert.Len(t, sink.added, 2)
	assert.Len(t, sink.removed, 1)
	assert.Len(t, sink.tiles, 1)
}

func TestOnEntityUpdatedIsANoop(t *testing.T) {
	m := New()
	sink := &fakeGraphSink{}
	m.AttachEntityGraph(sink)

	m.OnEntityUpdated(FactorioEntity{Name: "inserter"})

	assert.Empty(t, sink.added, "updated must not forward to the graph, per the documented gap")
}

func TestImportMergesIntoTargetAndReconnects(t *testing.T) {
	source := New()
	source.UpdateForce(&FactorioForce{Name: "player"})
	source.PlayerChangedPosition(3, spatial.Position{X: 2, Y: 2})

	target := New()
	sink := &fakeGraphSink{}
	target.AttachEntityGraph(sink)
	target.Import(source)

	_, ok := target.Force("player")
	assert.True(t, ok)
	_, ok = target.Player(3)
	assert.True(t, ok)
	assert.Equal(t, 1, sink.connects)
}

func TestSnapshotRoundTrip(t *testing.T) {
	m := New()
	m.UpdateForce(&FactorioForce{Name: "player", ID: 1})
	m.PlayerChangedPosition(1, spatial.Position{X: 1, Y: 2})
	m.UpdateRecipes([]*FactorioRecipe{{Name: "iron-gear-wheel"}})

	snap := m.Dump(nil)
	restored := LoadSnapshot(snap)

	_, ok := restored.Force("player")
	assert.True(t, ok)
	_, ok = restored.Player(1)
	assert.True(t, ok)
	_, ok = restored.Recipe("iron-gear-wheel")
	assert.True(t, ok)
}
