package world

import "encoding/json"

// Snapshot is the persisted form of a Mirror per spec.md §6.6. Its
// top-level fields are exactly the ones named there; next_action_id and any
// image cache are intentionally excluded, and entity_graph is opaque JSON
// supplied by the caller (the EntityGraph owns its own serialization).
type Snapshot struct {
	Players          []*FactorioPlayer          `json:"players"`
	Forces           []*FactorioForce           `json:"forces"`
	Graphics         map[string]string          `json:"graphics"`
	Recipes          []*FactorioRecipe          `json:"recipes"`
	EntityPrototypes []*FactorioEntityPrototype `json:"entity_prototypes"`
	ItemPrototypes   []*FactorioItemPrototype   `json:"item_prototypes"`
	Actions          map[uint32]*PendingAction  `json:"actions"`
	PathRequests     map[uint32]string          `json:"path_requests"`
	EntityGraph      json.RawMessage            `json:"entity_graph"`
}

// Dump captures the mirror's current state. entityGraphJSON is supplied by
// the caller, since Mirror holds no reference to a concrete EntityGraph
// type (only the narrow EntityGraphSink interface).
func (m *Mirror) Dump(entityGraphJSON json.RawMessage) *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	players := make([]*FactorioPlayer, 0, len(m.players))
	for _, p := range m.players {
		players = append(players, p)
	}
	forces := make([]*FactorioForce, 0, len(m.forces))
	for _, f := range m.forces {
		forces = append(forces, f)
	}
	recipes := make([]*FactorioRecipe, 0, len(m.recipes))
	for _, r := range m.recipes {
		recipes = append(recipes, r)
	}
	entityProtos := make([]*FactorioEntityPrototype, 0, len(m.entityPrototypes))
	for _, p := range m.entityPrototypes {
		entityProtos = append(entityProtos, p)
	}
	itemProtos := make([]*FactorioItemPrototype, 0, len(m.itemPrototypes))
	for _, p := range m.itemPrototypes {
		itemProtos = append(itemProtos, p)
	}
	graphics := make(map[string]string, len(m.graphics))
	for k, v := range m.graphics {
		graphics[k] = v
	}

	m.actionsMu.RLock()
	actions := make(map[uint32]*PendingAction, len(m.actions))
	for k, v := range m.actions {
		actions[k] = v
	}
	m.actionsMu.RUnlock()

	m.pathRequestsMu.RLock()
	pathRequests := make(map[uint32]string, len(m.pathRequests))
	for k, v := range m.pathRequests {
		pathRequests[k] = v
	}
	m.pathRequestsMu.RUnlock()

	return &Snapshot{
		Players:          players,
		Forces:           forces,
		Graphics:         graphics,
		Recipes:          recipes,
		EntityPrototypes: entityProtos,
		ItemPrototypes:   itemProtos,
		Actions:          actions,
		PathRequests:     pathRequests,
		EntityGraph:      entityGraphJSON,
	}
}

// LoadSnapshot reconstructs a Mirror from a previously dumped Snapshot. The
// flow graph is never part of the snapshot; it is rebuilt on demand by
// whoever owns it.
func LoadSnapshot(s *Snapshot) *Mirror {
	m := New()
	for _, p := range s.Players {
		m.players[p.PlayerID] = p
	}
	for _, f := range s.Forces {
		m.forces[f.Name] = f
	}
	for k, v := range s.Graphics {
		m.graphics[k] = v
	}
	for _, r := range s.Recipes {
		m.recipes[r.Name] = r
	}
	for _, p := range s.EntityPrototypes {
		m.entityPrototypes[p.Name] = p
	}
	for _, p := range s.ItemPrototypes {
		m.itemPrototypes[p.Name] = p
	}
	for k, v := range s.Actions {
		m.actions[k] = v
	}
	for k, v := range s.PathRequests {
		m.pathRequests[k] = v
	}
	return m
}
