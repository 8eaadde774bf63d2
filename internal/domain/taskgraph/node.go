package taskgraph

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
)

func formatPosition(p spatial.Position) string {
	return "[" + strconv.FormatFloat(p.X, 'f', -1, 64) + ", " + strconv.FormatFloat(p.Y, 'f', -1, 64) + "]"
}

// NodeID identifies one TaskNode. Stable for the graph's lifetime.
type NodeID uint64

// TaskData is the per-kind payload a worker step carries, mirroring
// task_graph.rs's TaskData enum as a marker interface plus concrete
// structs (MineTarget and PositionRadius double as both the constructor
// argument and the stored payload, matching the original's `Mine(MineTarget)`
// and `Walk(PositionRadius)` shape).
type TaskData interface {
	isTaskData()
}

// MineTarget is the payload of a mine step.
type MineTarget struct {
	Position spatial.Position
	Name     string
	Count    uint32
}

func (MineTarget) isTaskData() {}

// PositionRadius is the payload of a walk step: arrive anywhere within
// Radius of Position.
type PositionRadius struct {
	Position spatial.Position
	Radius   float64
}

func (PositionRadius) isTaskData() {}

// InventoryItem names a stack of an item, used by craft/insert/remove steps.
type InventoryItem struct {
	Name  string
	Count uint32
}

// CraftData is the payload of a craft step.
type CraftData struct {
	Item InventoryItem
}

func (CraftData) isTaskData() {}

// InventoryLocation names an entity's inventory slot an insert/remove step
// targets.
type InventoryLocation struct {
	EntityName    string
	Position      spatial.Position
	InventoryType uint32
}

// InsertToInventoryData is the payload of an insert-to-inventory step.
type InsertToInventoryData struct {
	Location InventoryLocation
	Item     InventoryItem
}

func (InsertToInventoryData) isTaskData() {}

// RemoveFromInventoryData is the payload of a remove-from-inventory step.
type RemoveFromInventoryData struct {
	Location InventoryLocation
	Item     InventoryItem
}

func (RemoveFromInventoryData) isTaskData() {}

// PlaceEntityData is the payload of a place-entity step.
type PlaceEntityData struct {
	Entity world.FactorioEntity
}

func (PlaceEntityData) isTaskData() {}

// Phase is a TaskNode's lifecycle stage.
type Phase int

const (
	Planned Phase = iota
	Running
	Success
	Failed
)

func (p Phase) String() string {
	switch p {
	case Planned:
		return "planned"
	case Running:
		return "running"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is a TaskNode's current lifecycle state, mirroring
// task_graph.rs's TaskStatus enum (Planned(cost) / Running(action_id,
// started_tick) / Success(cost, finished_tick) / Failed(action_id, tick,
// message)) as one struct instead of a sum type, since the transitions are
// linear (Planned -> Running -> Success|Failed) and Go has no tagged union.
type Status struct {
	Phase    Phase
	Cost     float64
	ActionID uint32
	Tick     uint64
	Message  string
}

// TaskNode is one step in a TaskGraph: a named, optionally worker-attributed
// unit of work with thread-safe status, since TaskExecutor transitions it
// from a goroutine distinct from whatever is inspecting progress.
type TaskNode struct {
	ID       NodeID
	Name     string
	PlayerID *uint32
	Data     TaskData

	mu     sync.RWMutex
	status Status
}

func newTaskNode(id NodeID, playerID *uint32, name string, data TaskData, cost float64) *TaskNode {
	return &TaskNode{
		ID:       id,
		Name:     name,
		PlayerID: playerID,
		Data:     data,
		status:   Status{Phase: Planned, Cost: cost},
	}
}

// Status returns a snapshot of the node's current lifecycle state.
func (n *TaskNode) Status() Status {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.status
}

// MarkRunning transitions the node to Running, recording the action id the
// executor correlated it with and the tick the transition happened at.
func (n *TaskNode) MarkRunning(actionID uint32, tick uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status = Status{Phase: Running, ActionID: actionID, Tick: tick}
}

// MarkSuccess transitions the node to Success.
func (n *TaskNode) MarkSuccess(tick uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status = Status{Phase: Success, ActionID: n.status.ActionID, Tick: tick}
}

// MarkFailed transitions the node to Failed, recording why.
func (n *TaskNode) MarkFailed(tick uint64, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status = Status{Phase: Failed, ActionID: n.status.ActionID, Tick: tick, Message: message}
}

func (n *TaskNode) String() string {
	return n.Name
}

func mineNodeName(target MineTarget) string {
	if target.Count > 1 {
		return fmt.Sprintf("Mining %s x %d", target.Name, target.Count)
	}
	return fmt.Sprintf("Mining %s", target.Name)
}

func craftNodeName(item InventoryItem) string {
	if item.Count > 1 {
		return fmt.Sprintf("Craft %s x %d", item.Name, item.Count)
	}
	return fmt.Sprintf("Craft %s", item.Name)
}

func walkNodeName(target PositionRadius) string {
	return fmt.Sprintf("Walk to %s", formatPosition(target.Position))
}

func placeNodeName(entity world.FactorioEntity) string {
	return fmt.Sprintf("Place %s at %s (%s)", entity.Name, formatPosition(entity.Position), entity.Direction)
}

func insertNodeName(location InventoryLocation, item InventoryItem) string {
	return fmt.Sprintf("Insert %dx%s into %s at %s", item.Count, item.Name, location.EntityName, formatPosition(location.Position))
}

func removeNodeName(location InventoryLocation, item InventoryItem) string {
	return fmt.Sprintf("Remove %dx%s from %s at %s", item.Count, item.Name, location.EntityName, formatPosition(location.Position))
}
