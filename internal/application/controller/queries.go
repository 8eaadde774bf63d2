package controller

import (
	"context"
	"encoding/json"

	"github.com/andrescamacho/factoriobot/internal/adapters/rcon"
	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
)

// The methods below are thin passthroughs onto internal/adapters/rcon,
// exposed directly on Controller so a caller never needs to reach past it
// into the adapter layer — spec.md §2's "Controller... owns the above,
// exposes the public operations in §4" for the operations TaskGraph/
// TaskExecutor don't already cover via the Dispatcher in dispatcher.go.

// FindEntitiesFiltered queries entities within filter matching an optional
// name/type (spec.md §4.6).
func (c *Controller) FindEntitiesFiltered(ctx context.Context, filter rcon.AreaFilter, name, entityType string) ([]world.FactorioEntity, error) {
	return c.rc.FindEntitiesFiltered(ctx, filter, name, entityType)
}

// FindTilesFiltered queries surveyed tiles within filter matching an
// optional name.
func (c *Controller) FindTilesFiltered(ctx context.Context, filter rcon.AreaFilter, name string) ([]world.FactorioTile, error) {
	return c.rc.FindTilesFiltered(ctx, filter, name)
}

// FindOffshorePumpPlacementOptions queries viable offshore pump placements
// near center.
func (c *Controller) FindOffshorePumpPlacementOptions(ctx context.Context, center spatial.Position, searchRadius, pumpRadius float64) ([]world.FactorioEntity, error) {
	return c.rc.FindOffshorePumpPlacementOptions(ctx, center, searchRadius, pumpRadius)
}

// RequestPlayerPath asks the game to plan a walking path for playerID to
// goal, retrying with rotation on failure per spec.md §4.6.
func (c *Controller) RequestPlayerPath(ctx context.Context, playerID uint32, goal spatial.Position, radius *float64) ([]spatial.Position, error) {
	return c.rc.RequestPlayerPath(ctx, playerID, goal, radius)
}

// RequestPath asks the game to plan an abstract path from start to goal.
func (c *Controller) RequestPath(ctx context.Context, start, goal spatial.Position, radius *float64) ([]spatial.Position, error) {
	return c.rc.RequestPath(ctx, start, goal, radius)
}

// ReviveGhost revives a ghost entity at position into a real entity.
func (c *Controller) ReviveGhost(ctx context.Context, playerID uint32, name string, position spatial.Position) (world.FactorioEntity, error) {
	return c.rc.ReviveGhost(ctx, playerID, name, position)
}

// PlaceBlueprint stamps a blueprint string into the world.
func (c *Controller) PlaceBlueprint(ctx context.Context, playerID uint32, blueprint string, position spatial.Position, direction spatial.Direction, forceBuild, onlyGhosts bool) ([]world.FactorioEntity, error) {
	return c.rc.PlaceBlueprint(ctx, playerID, blueprint, position, direction, forceBuild, onlyGhosts)
}

// CheatItem grants a player an item stack without inventory-distance checks.
func (c *Controller) CheatItem(ctx context.Context, playerID uint32, itemName string, count int) error {
	return c.rc.CheatItem(ctx, playerID, itemName, count)
}

// CheatTechnology instantly researches a technology.
func (c *Controller) CheatTechnology(ctx context.Context, technologyName string) error {
	return c.rc.CheatTechnology(ctx, technologyName)
}

// CheatAllTechnologies instantly researches every technology.
func (c *Controller) CheatAllTechnologies(ctx context.Context) error {
	return c.rc.CheatAllTechnologies(ctx)
}

// CheatBlueprint stamps a blueprint string without inventory checks.
func (c *Controller) CheatBlueprint(ctx context.Context, playerID uint32, blueprint string, position spatial.Position, direction spatial.Direction, forceBuild bool) ([]world.FactorioEntity, error) {
	return c.rc.CheatBlueprint(ctx, playerID, blueprint, position, direction, forceBuild)
}

// AddResearch queues a technology for research without instantly completing
// it.
func (c *Controller) AddResearch(ctx context.Context, technologyName string) error {
	return c.rc.AddResearch(ctx, technologyName)
}

// StoreMapData persists an arbitrary JSON value in the game's global
// storage table.
func (c *Controller) StoreMapData(ctx context.Context, key string, value json.RawMessage) error {
	return c.rc.StoreMapData(ctx, key, value)
}

// RetrieveMapData reads back a value persisted with StoreMapData.
func (c *Controller) RetrieveMapData(ctx context.Context, key string) (json.RawMessage, error) {
	return c.rc.RetrieveMapData(ctx, key)
}
