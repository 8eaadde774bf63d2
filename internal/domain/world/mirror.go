package world

import (
	"sync"

	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
)

// EntityGraphSink is the subset of EntityGraph's behavior WorldMirror
// forwards entity/tile telemetry to. Defined here (not imported from
// entitygraph) so world has no dependency on its consumer; entitygraph
// implements this interface and the Controller wires the two together.
type EntityGraphSink interface {
	AddEntities(entities []FactorioEntity)
	RemoveEntity(position spatial.Position)
	AddTiles(tiles []FactorioTile)
	Connect()
}

// Mirror is the concurrently-readable model of the game's visible state.
// Writers are drawn only from the TelemetryParser (single producer);
// readers may be many concurrent goroutines.
type Mirror struct {
	mu sync.RWMutex

	players map[uint32]*FactorioPlayer
	forces  map[string]*FactorioForce

	recipes          map[string]*FactorioRecipe
	entityPrototypes map[string]*FactorioEntityPrototype
	itemPrototypes   map[string]*FactorioItemPrototype
	graphics         map[string]string

	actionsMu sync.RWMutex
	actions   map[uint32]*PendingAction

	pathRequestsMu sync.RWMutex
	pathRequests   map[uint32]string

	nextActionID uint32

	graphMu sync.RWMutex
	graph   EntityGraphSink
}

// New builds an empty Mirror.
func New() *Mirror {
	return &Mirror{
		players:          make(map[uint32]*FactorioPlayer),
		forces:           make(map[string]*FactorioForce),
		recipes:          make(map[string]*FactorioRecipe),
		entityPrototypes: make(map[string]*FactorioEntityPrototype),
		itemPrototypes:   make(map[string]*FactorioItemPrototype),
		graphics:         make(map[string]string),
		actions:          make(map[uint32]*PendingAction),
		pathRequests:     make(map[uint32]string),
	}
}

// AttachEntityGraph wires the EntityGraph that entity/tile telemetry
// forwards to. Must be called once during startup before telemetry flows.
func (m *Mirror) AttachEntityGraph(graph EntityGraphSink) {
	m.graphMu.Lock()
	defer m.graphMu.Unlock()
	m.graph = graph
}

func (m *Mirror) entityGraph() EntityGraphSink {
	m.graphMu.RLock()
	defer m.graphMu.RUnlock()
	return m.graph
}

// NextActionID allocates an action id, wrapping modulo 1000 per spec.md
// §4.6.
func (m *Mirror) NextActionID() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextActionID
	m.nextActionID = (m.nextActionID + 1) % 1000
	return id
}

// --- Prototype ingest ---

// UpdateEntityPrototypes idempotently inserts entity prototypes by name.
func (m *Mirror) UpdateEntityPrototypes(protos []*FactorioEntityPrototype) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range protos {
		m.entityPrototypes[p.Name] = p
	}
}

// UpdateItemPrototypes idempotently inserts item prototypes by name.
func (m *Mirror) UpdateItemPrototypes(protos []*FactorioItemPrototype) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range protos {
		m.itemPrototypes[p.Name] = p
	}
}

// UpdateRecipes idempotently inserts recipes by name.
func (m *Mirror) UpdateRecipes(recipes []*FactorioRecipe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range recipes {
		m.recipes[r.Name] = r
	}
}

// UpdateGraphics idempotently inserts raw graphic descriptors by name.
func (m *Mirror) UpdateGraphics(graphics map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range graphics {
		m.graphics[k] = v
	}
}

func (m *Mirror) EntityPrototype(name string) (*FactorioEntityPrototype, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.entityPrototypes[name]
	return p, ok
}

func (m *Mirror) ItemPrototype(name string) (*FactorioItemPrototype, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.itemPrototypes[name]
	return p, ok
}

func (m *Mirror) Recipe(name string) (*FactorioRecipe, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.recipes[name]
	return r, ok
}

// --- Players ---

// playerDelta mutates a copy of the prior snapshot (or a fresh zero value
// on first sighting), per spec.md §4.2's "replace, not mutate" rule.
func (m *Mirror) playerDelta(playerID uint32, mutate func(p *FactorioPlayer)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prior, ok := m.players[playerID]
	next := FactorioPlayer{PlayerID: playerID}
	if ok {
		next = *prior
	}
	mutate(&next)
	m.players[playerID] = &next
}

// PlayerChangedPosition replaces the player's position, leaving every other
// field as it was.
func (m *Mirror) PlayerChangedPosition(playerID uint32, pos spatial.Position) {
	m.playerDelta(playerID, func(p *FactorioPlayer) { p.Position = pos })
}

// PlayerChangedDistance replaces the player's six reach/build distances.
func (m *Mirror) PlayerChangedDistance(playerID uint32, reach, build, dropItem, itemPickup, lootPickup, resourceReach float64) {
	m.playerDelta(playerID, func(p *FactorioPlayer) {
		p.ReachDistance = reach
		p.BuildDistance = build
		p.DropItemDistance = dropItem
		p.ItemPickupDistance = itemPickup
		p.LootPickupDistance = lootPickup
		p.ResourceReachDistance = resourceReach
	})
}

// PlayerChangedMainInventory replaces the player's main inventory.
func (m *Mirror) PlayerChangedMainInventory(playerID uint32, inventory Inventory) {
	m.playerDelta(playerID, func(p *FactorioPlayer) { p.MainInventory = inventory })
}

// RemovePlayer drops a player's entry, e.g. on player-left.
func (m *Mirror) RemovePlayer(playerID uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.players, playerID)
}

func (m *Mirror) Player(playerID uint32) (*FactorioPlayer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[playerID]
	return p, ok
}

func (m *Mirror) Players() []*FactorioPlayer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*FactorioPlayer, 0, len(m.players))
	for _, p := range m.players {
		out = append(out, p)
	}
	return out
}

// --- Forces ---

// UpdateForce replaces the force entry under its name.
func (m *Mirror) UpdateForce(force *FactorioForce) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forces[force.Name] = force
}

func (m *Mirror) Force(name string) (*FactorioForce, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.forces[name]
	return f, ok
}

// --- Entities / tiles (forwarded to EntityGraph) ---

// OnEntityCreated forwards a newly created entity to the EntityGraph.
func (m *Mirror) OnEntityCreated(entity FactorioEntity) {
	if g := m.entityGraph(); g != nil {
		g.AddEntities([]FactorioEntity{entity})
	}
}

// OnEntityUpdated is currently a no-op: direction-mutation on an
// already-inserted EntityNode is not applied. This is the acknowledged gap
// from spec.md §9, kept rather than silently fixed.
func (m *Mirror) OnEntityUpdated(entity FactorioEntity) {
	_ = entity
}

// OnEntityDeleted forwards removal by position to the EntityGraph.
func (m *Mirror) OnEntityDeleted(position spatial.Position) {
	if g := m.entityGraph(); g != nil {
		g.RemoveEntity(position)
	}
}

// UpdateChunkEntities forwards a chunk's worth of surveyed entities.
func (m *Mirror) UpdateChunkEntities(entities []FactorioEntity) {
	if g := m.entityGraph(); g != nil {
		g.AddEntities(entities)
	}
}

// UpdateChunkTiles forwards a chunk's worth of surveyed tiles.
func (m *Mirror) UpdateChunkTiles(tiles []FactorioTile) {
	if g := m.entityGraph(); g != nil {
		g.AddTiles(tiles)
	}
}

// --- Actions / path requests ---

// CreateAction registers a pending action under id, called by the
// controller before dispatching the RCON command that will complete it.
func (m *Mirror) CreateAction(id uint32) {
	m.actionsMu.Lock()
	defer m.actionsMu.Unlock()
	m.actions[id] = &PendingAction{ActionID: id, Outcome: ActionPending}
}

// CompleteAction records a telemetry-observed completion.
func (m *Mirror) CompleteAction(id uint32, ok bool, message string) {
	m.actionsMu.Lock()
	defer m.actionsMu.Unlock()
	outcome := ActionOk
	if !ok {
		outcome = ActionFail
	}
	m.actions[id] = &PendingAction{ActionID: id, Outcome: outcome, Message: message}
}

// Action reads the current state of a pending action without draining it.
func (m *Mirror) Action(id uint32) (*PendingAction, bool) {
	m.actionsMu.RLock()
	defer m.actionsMu.RUnlock()
	a, ok := m.actions[id]
	return a, ok
}

// DrainAction reads and removes a completed action's entry.
func (m *Mirror) DrainAction(id uint32) (*PendingAction, bool) {
	m.actionsMu.Lock()
	defer m.actionsMu.Unlock()
	a, ok := m.actions[id]
	if ok {
		delete(m.actions, id)
	}
	return a, ok
}

// CompletePathRequest records a telemetry-observed path-request result.
func (m *Mirror) CompletePathRequest(id uint32, pathJSON string) {
	m.pathRequestsMu.Lock()
	defer m.pathRequestsMu.Unlock()
	m.pathRequests[id] = pathJSON
}

// DrainPathRequest reads and removes a completed path-request's entry.
func (m *Mirror) DrainPathRequest(id uint32) (string, bool) {
	m.pathRequestsMu.Lock()
	defer m.pathRequestsMu.Unlock()
	v, ok := m.pathRequests[id]
	if ok {
		delete(m.pathRequests, id)
	}
	return v, ok
}

// Import merges another mirror's prototypes, recipes, players and forces
// into m, then reconnects the entity graph.
func (m *Mirror) Import(other *Mirror) {
	other.mu.RLock()
	players := make([]*FactorioPlayer, 0, len(other.players))
	for _, p := range other.players {
		players = append(players, p)
	}
	forces := make([]*FactorioForce, 0, len(other.forces))
	for _, f := range other.forces {
		forces = append(forces, f)
	}
	recipes := make([]*FactorioRecipe, 0, len(other.recipes))
	for _, r := range other.recipes {
		recipes = append(recipes, r)
	}
	entityProtos := make([]*FactorioEntityPrototype, 0, len(other.entityPrototypes))
	for _, p := range other.entityPrototypes {
		entityProtos = append(entityProtos, p)
	}
	itemProtos := make([]*FactorioItemPrototype, 0, len(other.itemPrototypes))
	for _, p := range other.itemPrototypes {
		itemProtos = append(itemProtos, p)
	}
	other.mu.RUnlock()

	m.mu.Lock()
	for _, p := range players {
		m.players[p.PlayerID] = p
	}
	for _, f := range forces {
		m.forces[f.Name] = f
	}
	for _, r := range recipes {
		m.recipes[r.Name] = r
	}
	for _, p := range entityProtos {
		m.entityPrototypes[p.Name] = p
	}
	for _, p := range itemProtos {
		m.itemPrototypes[p.Name] = p
	}
	m.mu.Unlock()

	if g := m.entityGraph(); g != nil {
		g.Connect()
	}
}
