// Package taskexec walks a taskgraph.Graph and dispatches each ready node
// through the controller's Rcon-backed operations (SPEC_FULL.md §4.2).
package taskexec

import (
	"context"

	"github.com/andrescamacho/factoriobot/internal/domain/taskgraph"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
)

// Dispatcher performs the in-game side effect for one TaskNode's payload.
// internal/application/controller implements this over internal/adapters/rcon.
type Dispatcher interface {
	Mine(ctx context.Context, playerID uint32, target taskgraph.MineTarget) error
	Walk(ctx context.Context, playerID uint32, target taskgraph.PositionRadius) error
	Craft(ctx context.Context, playerID uint32, item taskgraph.InventoryItem) error
	Place(ctx context.Context, playerID uint32, entity world.FactorioEntity) error
	InsertToInventory(ctx context.Context, playerID uint32, location taskgraph.InventoryLocation, item taskgraph.InventoryItem) error
	RemoveFromInventory(ctx context.Context, playerID uint32, location taskgraph.InventoryLocation, item taskgraph.InventoryItem) error
}

// HistoryRecorder persists one node's lifecycle transition for post-hoc
// audit. internal/adapters/persistence's TaskHistoryRepository implements
// this over GORM/SQLite.
type HistoryRecorder interface {
	RecordTransition(ctx context.Context, sessionID string, nodeID taskgraph.NodeID, nodeName string, status taskgraph.Status) error
}

// NopHistoryRecorder discards every transition, for callers that don't want
// an audit trail (e.g. unit tests exercising the executor in isolation).
type NopHistoryRecorder struct{}

func (NopHistoryRecorder) RecordTransition(context.Context, string, taskgraph.NodeID, string, taskgraph.Status) error {
	return nil
}
