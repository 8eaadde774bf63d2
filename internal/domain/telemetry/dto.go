package telemetry

import (
	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
)

// positionDTO mirrors the game's {x,y} position encoding.
type positionDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p positionDTO) toPosition() spatial.Position {
	return spatial.Position{X: p.X, Y: p.Y}
}

type boundingBoxDTO struct {
	LeftTop     positionDTO `json:"left_top"`
	RightBottom positionDTO `json:"right_bottom"`
}

func (b boundingBoxDTO) toRect() spatial.Rect {
	return spatial.NewRect(b.LeftTop.toPosition(), b.RightBottom.toPosition())
}

// entityDTO mirrors one element of an `entities` / `on_some_entity_*` record.
type entityDTO struct {
	Name           string                    `json:"name"`
	Type           string                    `json:"type"`
	Position       positionDTO               `json:"position"`
	BoundingBox    boundingBoxDTO            `json:"bounding_box"`
	Direction      int                       `json:"direction"`
	DropPosition   *positionDTO              `json:"drop_position"`
	PickupPosition *positionDTO              `json:"pickup_position"`
	Inventories    map[string]map[string]int `json:"inventories"`
	Amount         *float64                  `json:"amount"`
	Recipe         string                    `json:"recipe"`
	GhostName      string                    `json:"ghost_name"`
	GhostType      string                    `json:"ghost_type"`
}

func (d entityDTO) toEntity() world.FactorioEntity {
	e := world.FactorioEntity{
		Name:        d.Name,
		Type:        world.EntityType(d.Type),
		Position:    d.Position.toPosition(),
		BoundingBox: d.BoundingBox.toRect(),
		Direction:   spatial.Direction(d.Direction),
		Amount:      d.Amount,
		Recipe:      d.Recipe,
		GhostName:   d.GhostName,
		GhostType:   d.GhostType,
	}
	if d.DropPosition != nil {
		p := d.DropPosition.toPosition()
		e.DropPosition = &p
	}
	if d.PickupPosition != nil {
		p := d.PickupPosition.toPosition()
		e.PickupPosition = &p
	}
	if len(d.Inventories) > 0 {
		e.Inventories = make(map[string]world.Inventory, len(d.Inventories))
		for name, items := range d.Inventories {
			inv := make(world.Inventory, len(items))
			for k, v := range items {
				inv[k] = v
			}
			e.Inventories[name] = inv
		}
	}
	return e
}

type fluidboxPrototypeDTO struct {
	ProductionType string        `json:"production_type"`
	Pipes          []positionDTO `json:"pipes"`
}

func (f fluidboxPrototypeDTO) toFluidbox() world.FluidboxPrototype {
	pipes := make([]spatial.Position, 0, len(f.Pipes))
	for _, p := range f.Pipes {
		pipes = append(pipes, p.toPosition())
	}
	return world.FluidboxPrototype{ProductionType: f.ProductionType, Pipes: pipes}
}

type entityPrototypeDTO struct {
	Name                   string                 `json:"name"`
	Type                   string                 `json:"type"`
	CollisionBox           boundingBoxDTO         `json:"collision_box"`
	MiningTime             *float64               `json:"mining_time"`
	MiningSpeed            *float64               `json:"mining_speed"`
	CraftingSpeed          *float64               `json:"crafting_speed"`
	MaxUndergroundDistance int                    `json:"max_underground_distance"`
	FluidboxPrototypes     []fluidboxPrototypeDTO `json:"fluid_box_prototypes"`
}

func (d entityPrototypeDTO) toPrototype() *world.FactorioEntityPrototype {
	boxes := make([]world.FluidboxPrototype, 0, len(d.FluidboxPrototypes))
	for _, f := range d.FluidboxPrototypes {
		boxes = append(boxes, f.toFluidbox())
	}
	return &world.FactorioEntityPrototype{
		Name:                   d.Name,
		Type:                   world.EntityType(d.Type),
		CollisionBox:           d.CollisionBox.toRect(),
		MiningTime:             d.MiningTime,
		MiningSpeed:            d.MiningSpeed,
		CraftingSpeed:          d.CraftingSpeed,
		MaxUndergroundDistance: d.MaxUndergroundDistance,
		FluidboxPrototypes:     boxes,
	}
}

type itemPrototypeDTO struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	StackSize   int     `json:"stack_size"`
	FuelValue   float64 `json:"fuel_value"`
	PlaceResult string  `json:"place_result"`
	Group       string  `json:"group"`
	Subgroup    string  `json:"subgroup"`
}

func (d itemPrototypeDTO) toPrototype() *world.FactorioItemPrototype {
	return &world.FactorioItemPrototype{
		Name:        d.Name,
		Type:        d.Type,
		StackSize:   d.StackSize,
		FuelValue:   d.FuelValue,
		PlaceResult: d.PlaceResult,
		Group:       d.Group,
		Subgroup:    d.Subgroup,
	}
}

type recipeItemDTO struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type recipeDTO struct {
	Name        string          `json:"name"`
	Enabled     bool            `json:"enabled"`
	Category    string          `json:"category"`
	Ingredients []recipeItemDTO `json:"ingredients"`
	Products    []recipeItemDTO `json:"products"`
	Energy      float64         `json:"energy"`
	Hidden      bool            `json:"hidden"`
	Order       string          `json:"order"`
	Group       string          `json:"group"`
	Subgroup    string          `json:"subgroup"`
}

func (d recipeDTO) toRecipe() *world.FactorioRecipe {
	ingredients := make([]world.RecipeItem, 0, len(d.Ingredients))
	for _, i := range d.Ingredients {
		ingredients = append(ingredients, world.RecipeItem{Name: i.Name, Amount: i.Amount})
	}
	products := make([]world.RecipeItem, 0, len(d.Products))
	for _, p := range d.Products {
		products = append(products, world.RecipeItem{Name: p.Name, Amount: p.Amount})
	}
	return &world.FactorioRecipe{
		Name:        d.Name,
		Enabled:     d.Enabled,
		Category:    d.Category,
		Ingredients: ingredients,
		Products:    products,
		Energy:      d.Energy,
		Hidden:      d.Hidden,
		Order:       d.Order,
		Group:       d.Group,
		Subgroup:    d.Subgroup,
	}
}

type forceDTO struct {
	Name             string          `json:"name"`
	ID               uint32          `json:"id"`
	CurrentResearch  string          `json:"current_research"`
	ResearchProgress *float64        `json:"research_progress"`
	Technologies     map[string]bool `json:"technologies"`
}

func (d forceDTO) toForce() *world.FactorioForce {
	return &world.FactorioForce{
		Name:             d.Name,
		ID:               d.ID,
		CurrentResearch:  d.CurrentResearch,
		ResearchProgress: d.ResearchProgress,
		Technologies:     d.Technologies,
	}
}

type playerInventoryDTO struct {
	PlayerID      uint32         `json:"player_id"`
	MainInventory map[string]int `json:"main_inventory"`
}

type playerPositionDTO struct {
	PlayerID uint32      `json:"player_id"`
	Position positionDTO `json:"position"`
}

type playerDistanceDTO struct {
	PlayerID              uint32  `json:"player_id"`
	ReachDistance         float64 `json:"reach_distance"`
	BuildDistance         float64 `json:"build_distance"`
	DropItemDistance      float64 `json:"drop_item_distance"`
	ItemPickupDistance    float64 `json:"item_pickup_distance"`
	LootPickupDistance    float64 `json:"loot_pickup_distance"`
	ResourceReachDistance float64 `json:"resource_reach_distance"`
}
