package rcon

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
)

// AreaFilter selects either an explicit rectangle or a center+radius disc,
// mirroring the game's two find_entities_filtered call shapes.
type AreaFilter struct {
	Rect      *spatial.Rect
	Center    spatial.Position
	Radius    float64
	hasCenter bool
}

// RectFilter builds an AreaFilter over an explicit rectangle.
func RectFilter(r spatial.Rect) AreaFilter {
	return AreaFilter{Rect: &r}
}

// RadiusFilter builds an AreaFilter over a center+radius disc.
func RadiusFilter(center spatial.Position, radius float64) AreaFilter {
	return AreaFilter{Center: center, Radius: radius, hasCenter: true}
}

// luaArgs renders the filter as one or two Lua-literal argument tokens:
// a rectangle is one `{ {lx,ly}, {rx,ry} }` token, a center+radius disc is
// a `{x,y}` token followed by a bare numeric radius token.
func (f AreaFilter) luaArgs() []string {
	if f.Rect != nil {
		return []string{rectToLua(*f.Rect)}
	}
	return []string{positionToLua(f.Center), formatFloat(f.Radius)}
}

func (f AreaFilter) checkRadius() error {
	if f.hasCenter {
		return checkRadius(f.Radius)
	}
	return nil
}

// FindEntitiesFiltered queries the game for entities matching the area
// filter and optional name/type, failing fast on an oversized radius
// before any network call (spec.md §4.6 Scenario E).
func (r *Rcon) FindEntitiesFiltered(ctx context.Context, filter AreaFilter, name, entityType string) ([]world.FactorioEntity, error) {
	if err := filter.checkRadius(); err != nil {
		return nil, err
	}
	args := filter.luaArgs()
	if name != "" {
		args = append(args, strToLua(name))
	} else {
		args = append(args, "nil")
	}
	if entityType != "" {
		args = append(args, strToLua(entityType))
	}
	lines, err := r.remoteCall(ctx, "find_entities_filtered", args...)
	if err != nil {
		return nil, err
	}
	return parseEntityList(lines)
}

// FindTilesFiltered queries the game for surveyed tiles matching the area
// filter and optional name.
func (r *Rcon) FindTilesFiltered(ctx context.Context, filter AreaFilter, name string) ([]world.FactorioTile, error) {
	if err := filter.checkRadius(); err != nil {
		return nil, err
	}
	args := filter.luaArgs()
	if name != "" {
		args = append(args, strToLua(name))
	}
	lines, err := r.remoteCall(ctx, "find_tiles_filtered", args...)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}
	body := lines[len(lines)-1]
	if body == "{}" {
		body = "[]"
	}
	var dtos []tileResponseDTO
	if err := json.Unmarshal([]byte(body), &dtos); err != nil {
		return nil, shared.NewUnexpectedOutputError(body)
	}
	tiles := make([]world.FactorioTile, 0, len(dtos))
	for _, d := range dtos {
		tiles = append(tiles, d.toTile())
	}
	return tiles, nil
}

// FindOffshorePumpPlacementOptions queries the game for shoreline tiles an
// offshore pump could be placed against near center, failing with
// NoWaterFoundError when none are reported.
func (r *Rcon) FindOffshorePumpPlacementOptions(ctx context.Context, center spatial.Position, searchRadius, pumpRadius float64) ([]world.FactorioEntity, error) {
	if err := checkRadius(searchRadius); err != nil {
		return nil, err
	}
	lines, err := r.remoteCall(ctx, "find_offshore_pump_placement_options",
		positionToLua(center), formatFloat(searchRadius), formatFloat(pumpRadius))
	if err != nil {
		return nil, err
	}
	options, err := parseEntityList(lines)
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return nil, shared.NewNoWaterFoundError()
	}
	return options, nil
}

func parseEntityList(lines []string) ([]world.FactorioEntity, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	body := lines[len(lines)-1]
	if body == "{}" {
		body = "[]"
	}
	if !strings.HasPrefix(body, "[") {
		return nil, shared.NewUnexpectedOutputError(body)
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

type tileResponseDTO struct {
	Name     string      `json:"name"`
	Position positionDTO `json:"position"`
}

func (d tileResponseDTO) toTile() world.FactorioTile {
	return world.FactorioTile{Name: d.Name, Position: spatial.PosFromPosition(d.Position.toPosition())}
}
