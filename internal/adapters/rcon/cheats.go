package rcon

import (
	"context"

	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
)

// CheatTechnology instantly researches a single technology.
func (r *Rcon) CheatTechnology(ctx context.Context, technologyName string) error {
	_, err := r.remoteCall(ctx, "cheat_technology", strToLua(technologyName))
	return err
}

// CheatAllTechnologies instantly researches the entire tech tree.
func (r *Rcon) CheatAllTechnologies(ctx context.Context) error {
	_, err := r.remoteCall(ctx, "cheat_all_technologies")
	return err
}

// CheatBlueprint stamps a blueprint without distance/inventory checks.
func (r *Rcon) CheatBlueprint(ctx context.Context, playerID uint32, blueprint string, position spatial.Position, direction spatial.Direction, forceBuild bool) ([]world.FactorioEntity, error) {
	lines, err := r.remoteCall(ctx, "cheat_blueprint",
		uintToLua(playerID), strToLua(blueprint), positionToLua(position), intToLua(int(direction)), boolToLua(forceBuild))
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, shared.NewUnexpectedEmptyResponseError()
	}
	return parseEntityList(lines)
}

// AddResearch queues a technology for normal (non-instant) research.
func (r *Rcon) AddResearch(ctx context.Context, technologyName string) error {
	_, err := r.remoteCall(ctx, "add_research", strToLua(technologyName))
	return err
}
