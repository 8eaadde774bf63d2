// Package world implements the concurrently-readable mirror of the game's
// visible state: prototypes, recipes, players, forces, entities, tiles, and
// the pending-action / pending-path-request maps fed by telemetry.
package world

import "github.com/andrescamacho/factoriobot/internal/domain/spatial"

// EntityType tags the kinds of FactorioEntity the controller treats
// specially. Untyped/uninteresting entities use EntityTypeOther.
type EntityType string

const (
	EntityTypeResource           EntityType = "resource"
	EntityTypeTree               EntityType = "tree"
	EntityTypeSimpleEntity       EntityType = "simple-entity"
	EntityTypeFlyingText         EntityType = "flying-text"
	EntityTypeFish               EntityType = "fish"
	EntityTypeStraightRail       EntityType = "straight-rail"
	EntityTypeCurvedRail         EntityType = "curved-rail"
	EntityTypeFurnace            EntityType = "furnace"
	EntityTypeInserter           EntityType = "inserter"
	EntityTypeBoiler             EntityType = "boiler"
	EntityTypeLab                EntityType = "lab"
	EntityTypeOffshorePump       EntityType = "offshore-pump"
	EntityTypeMiningDrill        EntityType = "mining-drill"
	EntityTypeStorageTank        EntityType = "storage-tank"
	EntityTypeContainer          EntityType = "container"
	EntityTypeSplitter           EntityType = "splitter"
	EntityTypeTransportBelt      EntityType = "transport-belt"
	EntityTypeUndergroundBelt    EntityType = "underground-belt"
	EntityTypePipe               EntityType = "pipe"
	EntityTypePipeToGround       EntityType = "pipe-to-ground"
	EntityTypeLogisticContainer  EntityType = "logistic-container"
	EntityTypeAssemblingMachine  EntityType = "assembling-machine"
	EntityTypeOther              EntityType = "other"
)

// GraphRelevant reports whether entities of this type are candidates for an
// EntityGraph node (spec.md §4.3's graph-relevant set).
func (t EntityType) GraphRelevant() bool {
	switch t {
	case EntityTypeFurnace, EntityTypeInserter, EntityTypeBoiler, EntityTypeLab,
		EntityTypeOffshorePump, EntityTypeMiningDrill, EntityTypeStorageTank,
		EntityTypeContainer, EntityTypeSplitter, EntityTypeTransportBelt,
		EntityTypeUndergroundBelt, EntityTypePipe, EntityTypePipeToGround,
		EntityTypeLogisticContainer, EntityTypeAssemblingMachine:
		return true
	default:
		return false
	}
}

// BeltConnectable reports whether a node of this type can receive a
// belt-chain edge.
func (t EntityType) BeltConnectable() bool {
	return t == EntityTypeTransportBelt || t == EntityTypeUndergroundBelt || t == EntityTypeSplitter
}

// FluidInput reports whether a node of this type can receive a fluid edge.
func (t EntityType) FluidInput() bool {
	switch t {
	case EntityTypePipe, EntityTypeStorageTank, EntityTypePipeToGround, EntityTypeBoiler:
		return true
	default:
		return false
	}
}

// Minable reports whether this entity type can be hand-mined by a player,
// used as the blocked-tree payload (spec.md §4.3).
func (t EntityType) Minable() bool {
	return t == EntityTypeTree || t == EntityTypeSimpleEntity
}

// Inventory is a name -> count multiset.
type Inventory map[string]int

// FactorioEntity is one placed or transient object reported by telemetry.
type FactorioEntity struct {
	Name          string
	Type          EntityType
	Position      spatial.Position
	BoundingBox   spatial.Rect
	Direction     spatial.Direction
	DropPosition  *spatial.Position
	PickupPosition *spatial.Position
	Inventories   map[string]Inventory
	Amount        *float64
	Recipe        string
	GhostName     string
	GhostType     string
}

// FactorioTile is one surveyed map tile.
type FactorioTile struct {
	Name             string
	Position         spatial.Pos
	PlayerCollidable bool
	Color            *TileColor
}

// TileColor is a derived RGBA color for a surveyed tile (water/deepwater get
// a fixed color; everything else has none).
type TileColor struct {
	R, G, B, A uint8
}

// FactorioPlayer is a point-in-time snapshot of a connected player. New
// snapshots replace the previous entry entirely; fields are never mutated
// in place (spec.md §4.2).
type FactorioPlayer struct {
	PlayerID             uint32
	Position             spatial.Position
	MainInventory        Inventory
	ReachDistance         float64
	BuildDistance         float64
	DropItemDistance      float64
	ItemPickupDistance    float64
	LootPickupDistance    float64
	ResourceReachDistance float64
}

// FactorioForce is a team's aggregate research state.
type FactorioForce struct {
	Name             string
	ID               uint32
	CurrentResearch  string
	ResearchProgress *float64
	Technologies     map[string]bool
}

// FactorioRecipe is an immutable prototype-ingested crafting recipe.
type FactorioRecipe struct {
	Name      string
	Enabled   bool
	Category  string
	Ingredients []RecipeItem
	Products    []RecipeItem
	Energy    float64
	Hidden    bool
	Order     string
	Group     string
	Subgroup  string
}

// RecipeItem is one ingredient or product line of a FactorioRecipe.
type RecipeItem struct {
	Name   string
	Amount float64
}

// FluidboxPrototype describes one fluid connection point of an entity
// prototype.
type FluidboxPrototype struct {
	ProductionType string
	Pipes          []spatial.Position
}

// FactorioEntityPrototype is an immutable prototype-ingested entity
// definition.
type FactorioEntityPrototype struct {
	Name                    string
	Type                    EntityType
	CollisionBox            spatial.Rect
	MiningTime              *float64
	MiningSpeed             *float64
	CraftingSpeed           *float64
	MaxUndergroundDistance  int
	FluidboxPrototypes      []FluidboxPrototype
}

// FactorioItemPrototype is an immutable prototype-ingested item definition.
type FactorioItemPrototype struct {
	Name       string
	Type       string
	StackSize  int
	FuelValue  float64
	PlaceResult string
	Group      string
	Subgroup   string
}

// ActionOutcome is the terminal state of a PendingAction.
type ActionOutcome int

const (
	ActionPending ActionOutcome = iota
	ActionOk
	ActionFail
)

// PendingAction tracks one in-flight correlated RCON action.
type PendingAction struct {
	ActionID uint32
	Outcome  ActionOutcome
	Message  string
}
