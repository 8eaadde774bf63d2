package controller

import (
	"context"
	"strconv"

	"github.com/andrescamacho/factoriobot/internal/domain/taskgraph"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
)

// Controller implements taskexec.Dispatcher by routing each TaskData kind to
// its matching Rcon operation (SPEC_FULL.md §4.2).
var _ interface {
	Mine(ctx context.Context, playerID uint32, target taskgraph.MineTarget) error
	Walk(ctx context.Context, playerID uint32, target taskgraph.PositionRadius) error
	Craft(ctx context.Context, playerID uint32, item taskgraph.InventoryItem) error
	Place(ctx context.Context, playerID uint32, entity world.FactorioEntity) error
	InsertToInventory(ctx context.Context, playerID uint32, location taskgraph.InventoryLocation, item taskgraph.InventoryItem) error
	RemoveFromInventory(ctx context.Context, playerID uint32, location taskgraph.InventoryLocation, item taskgraph.InventoryItem) error
} = (*Controller)(nil)

// Mine issues a player_mine command for the node's target.
func (c *Controller) Mine(ctx context.Context, playerID uint32, target taskgraph.MineTarget) error {
	return c.rc.PlayerMine(ctx, playerID, target.Name, target.Position, int(target.Count))
}

// Walk issues a move_player command to arrive within target.Radius of
// target.Position.
func (c *Controller) Walk(ctx context.Context, playerID uint32, target taskgraph.PositionRadius) error {
	radius := target.Radius
	return c.rc.MovePlayer(ctx, playerID, target.Position, &radius)
}

// Craft issues a player_craft command for item.
func (c *Controller) Craft(ctx context.Context, playerID uint32, item taskgraph.InventoryItem) error {
	return c.rc.PlayerCraft(ctx, playerID, item.Name, int(item.Count))
}

// Place issues a place_entity command at entity's recorded position and
// direction.
func (c *Controller) Place(ctx context.Context, playerID uint32, entity world.FactorioEntity) error {
	_, err := c.rc.PlaceEntity(ctx, playerID, entity.Name, entity.Position, entity.Direction)
	return err
}

// InsertToInventory issues an insert_to_inventory command. location's
// InventoryType is the target entity's `defines.inventory` index; the Rcon
// layer treats it as an opaque Lua literal, so it travels as a decimal
// string rather than a symbolic inventory name.
func (c *Controller) InsertToInventory(ctx context.Context, playerID uint32, location taskgraph.InventoryLocation, item taskgraph.InventoryItem) error {
	return c.rc.InsertToInventory(ctx, playerID, location.Position, strconv.Itoa(int(location.InventoryType)), item.Name, int(item.Count))
}

// RemoveFromInventory issues a remove_from_inventory command.
func (c *Controller) RemoveFromInventory(ctx context.Context, playerID uint32, location taskgraph.InventoryLocation, item taskgraph.InventoryItem) error {
	return c.rc.RemoveFromInventory(ctx, playerID, location.Position, strconv.Itoa(int(location.InventoryType)), item.Name, int(item.Count))
}
