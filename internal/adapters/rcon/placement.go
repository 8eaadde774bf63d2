package rcon

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
)

// playerBlocksPlacementMarker is the sentinel line the game emits when the
// player's own hitbox occupies the target tile (spec.md §4.6).
const playerBlocksPlacementMarker = "§player_blocks_placement§"

// escapeDistance/escapeClearance are the 8-direction unstick
// parameters from spec.md §4.6: move 5 tiles in a direction whose 2-tile
// radius around the player is empty, then retry placement.
const (
	escapeDistance  = 5.0
	escapeClearance = 2.0
)

type positionDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p positionDTO) toPosition() spatial.Position { return spatial.Position{X: p.X, Y: p.Y} }

type entityResponseDTO struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Position    positionDTO `json:"position"`
	Direction   int         `json:"direction"`
}

func (d entityResponseDTO) toEntity() world.FactorioEntity {
	return world.FactorioEntity{
		Name:      d.Name,
		Type:      world.EntityType(d.Type),
		Position:  d.Position.toPosition(),
		Direction: spatial.Direction(d.Direction),
	}
}

func parseEntityLine(line string) (world.FactorioEntity, error) {
	var dto entityResponseDTO
	if err := json.Unmarshal([]byte(line), &dto); err != nil {
		return world.FactorioEntity{}, shared.NewUnexpectedOutputError(line)
	}
	return dto.toEntity(), nil
}

// PlaceEntity preflights distance, issues place_entity, and on the
// "player blocks placement" sentinel moves the player to the first of the 8
// escape directions that is clear and retries once. A retry that is still
// blocked fails with PlayerBlocksPlacementError; if no direction could be
// moved to, it fails with PlayerBlocksAllPlacementError.
func (r *Rcon) PlaceEntity(ctx context.Context, playerID uint32, name string, position spatial.Position, direction spatial.Direction) (world.FactorioEntity, error) {
	player, ok := r.mirror.Player(playerID)
	if !ok {
		return world.FactorioEntity{}, shared.NewPlayerNotFoundError(playerID)
	}
	if err := r.preflightMove(ctx, playerID, position, player.BuildDistance); err != nil {
		return world.FactorioEntity{}, err
	}

	entity, blocked, err := r.tryPlaceEntity(ctx, playerID, name, position, direction)
	if err != nil {
		return world.FactorioEntity{}, err
	}
	if !blocked {
		return entity, nil
	}

	for _, d := range spatial.AllDirections() {
		escapeTo := position.Add(d.Vector().Scale(escapeDistance))
		if !r.areaIsClear(escapeTo, escapeClearance) {
			continue
		}
		if err := r.MovePlayer(ctx, playerID, escapeTo, nil); err != nil {
			continue
		}
		entity, blocked, err = r.tryPlaceEntity(ctx, playerID, name, position, direction)
		if err != nil {
			return world.FactorioEntity{}, err
		}
		if blocked {
			return world.FactorioEntity{}, shared.NewPlayerBlocksPlacementError()
		}
		return entity, nil
	}
	return world.FactorioEntity{}, shared.NewPlayerBlocksAllPlacementError()
}

func (r *Rcon) tryPlaceEntity(ctx context.Context, playerID uint32, name string, position spatial.Position, direction spatial.Direction) (world.FactorioEntity, bool, error) {
	lines, err := r.remoteCall(ctx, "place_entity",
		uintToLua(playerID), strToLua(name), positionToLua(position), intToLua(int(direction)))
	if err != nil {
		return world.FactorioEntity{}, false, err
	}
	if len(lines) == 0 {
		return world.FactorioEntity{}, false, shared.NewUnexpectedEmptyResponseError()
	}
	first := lines[0]
	if strings.HasPrefix(first, "{") {
		entity, err := parseEntityLine(first)
		return entity, false, err
	}
	if first == playerBlocksPlacementMarker {
		return world.FactorioEntity{}, true, nil
	}
	return world.FactorioEntity{}, false, shared.NewUnexpectedOutputError(first)
}

func (r *Rcon) areaIsClear(center spatial.Position, radius float64) bool {
	box := spatial.NewRect(
		spatial.Position{X: center.X - radius, Y: center.Y - radius},
		spatial.Position{X: center.X + radius, Y: center.Y + radius},
	)
	return len(r.entities.EntitiesInRect(box, "", "")) == 0
}

// ReviveGhost preflights distance then revives a ghost entity of the given
// name at position.
func (r *Rcon) ReviveGhost(ctx context.Context, playerID uint32, name string, position spatial.Position) (world.FactorioEntity, error) {
	player, ok := r.mirror.Player(playerID)
	if !ok {
		return world.FactorioEntity{}, shared.NewPlayerNotFoundError(playerID)
	}
	if err := r.preflightMove(ctx, playerID, position, player.BuildDistance); err != nil {
		return world.FactorioEntity{}, err
	}
	lines, err := r.remoteCall(ctx, "revive_ghost", uintToLua(playerID), strToLua(name), positionToLua(position))
	if err != nil {
		return world.FactorioEntity{}, err
	}
	if len(lines) == 0 {
		return world.FactorioEntity{}, shared.NewUnexpectedEmptyResponseError()
	}
	return parseEntityLine(lines[0])
}

// PlaceBlueprint preflights distance then stamps a blueprint string,
// returning every entity the game reports as placed.
func (r *Rcon) PlaceBlueprint(ctx context.Context, playerID uint32, blueprint string, position spatial.Position, direction spatial.Direction, forceBuild, onlyGhosts bool) ([]world.FactorioEntity, error) {
	player, ok := r.mirror.Player(playerID)
	if !ok {
		return nil, shared.NewPlayerNotFoundError(playerID)
	}
	if err := r.preflightMove(ctx, playerID, position, player.BuildDistance); err != nil {
		return nil, err
	}
	lines, err := r.remoteCall(ctx, "place_blueprint",
		uintToLua(playerID), strToLua(blueprint), positionToLua(position), intToLua(int(direction)),
		boolToLua(forceBuild), boolToLua(onlyGhosts))
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, shared.NewUnexpectedEmptyResponseError()
	}
	body := lines[len(lines)-1]
	if body == "{}" {
		body = "[]"
	}
	if !strings.HasPrefix(body, "[") {
		return nil, shared.NewRconError(body)
	}
	var dtos []entityResponseDTO
	if err := json.Unmarshal([]byte(body), &dtos); err != nil {
		return nil, shared.NewUnexpectedOutputError(body)
	}
	entities := make([]world.FactorioEntity, 0, len(dtos))
	for _, d := range dtos {
		entities = append(entities, d.toEntity())
	}
	return entities, nil
}
