package rcon

import (
	"context"

	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
)

// MovePlayer allocates an action id, dispatches move_player, and awaits
// completion up to 360s (spec.md §4.6's correlated long-running actions).
func (r *Rcon) MovePlayer(ctx context.Context, playerID uint32, target spatial.Position, radius *float64) error {
	id := r.mirror.NextActionID()
	r.mirror.CreateAction(id)

	args := []string{uintToLua(id), uintToLua(playerID), positionToLua(target)}
	if radius != nil {
		args = append(args, formatFloat(*radius))
	}
	if _, err := r.remoteCall(ctx, "move_player", args...); err != nil {
		return err
	}
	return r.actions.await(ctx, id)
}

// PlayerMine issues a correlated mining action, preflighting a move if the
// target is outside the player's reach distance.
func (r *Rcon) PlayerMine(ctx context.Context, playerID uint32, entityName string, position spatial.Position, count int) error {
	player, ok := r.mirror.Player(playerID)
	if ok {
		if err := r.preflightMove(ctx, playerID, position, player.ReachDistance); err != nil {
			return err
		}
	}

	id := r.mirror.NextActionID()
	r.mirror.CreateAction(id)
	args := []string{uintToLua(id), uintToLua(playerID), strToLua(entityName), positionToLua(position), intToLua(count)}
	if _, err := r.remoteCall(ctx, "player_mine", args...); err != nil {
		return err
	}
	return r.actions.await(ctx, id)
}

// PlayerCraft issues a correlated crafting action for `count` copies of a
// recipe.
func (r *Rcon) PlayerCraft(ctx context.Context, playerID uint32, recipeName string, count int) error {
	id := r.mirror.NextActionID()
	r.mirror.CreateAction(id)
	args := []string{uintToLua(id), uintToLua(playerID), strToLua(recipeName), intToLua(count)}
	if _, err := r.remoteCall(ctx, "player_craft", args...); err != nil {
		return err
	}
	return r.actions.await(ctx, id)
}

// InsertToInventory preflights distance then inserts an item stack into an
// entity's named inventory.
func (r *Rcon) InsertToInventory(ctx context.Context, playerID uint32, position spatial.Position, inventoryName, itemName string, count int) error {
	player, ok := r.mirror.Player(playerID)
	if ok {
		if err := r.preflightMove(ctx, playerID, position, player.ReachDistance); err != nil {
			return err
		}
	}
	_, err := r.remoteCall(ctx, "insert_to_inventory",
		uintToLua(playerID), positionToLua(position), strToLua(inventoryName), strToLua(itemName), intToLua(count))
	return err
}

// RemoveFromInventory preflights distance then removes an item stack from
// an entity's named inventory.
func (r *Rcon) RemoveFromInventory(ctx context.Context, playerID uint32, position spatial.Position, inventoryName, itemName string, count int) error {
	player, ok := r.mirror.Player(playerID)
	if ok {
		if err := r.preflightMove(ctx, playerID, position, player.ReachDistance); err != nil {
			return err
		}
	}
	_, err := r.remoteCall(ctx, "remove_from_inventory",
		uintToLua(playerID), positionToLua(position), strToLua(inventoryName), strToLua(itemName), intToLua(count))
	return err
}

// CheatItem grants a player an item stack without inventory-distance checks.
func (r *Rcon) CheatItem(ctx context.Context, playerID uint32, itemName string, count int) error {
	_, err := r.remoteCall(ctx, "cheat_item", uintToLua(playerID), strToLua(itemName), intToLua(count))
	return err
}
