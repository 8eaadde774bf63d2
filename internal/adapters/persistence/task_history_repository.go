package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/domain/taskgraph"
)

// TaskHistoryEntry is one recorded TaskNode transition, read back for
// post-hoc audit of a completed or in-flight plan.
type TaskHistoryEntry struct {
	ID         int
	SessionID  string
	NodeID     taskgraph.NodeID
	NodeName   string
	Phase      string
	ActionID   uint32
	Tick       uint64
	Message    string
	RecordedAt string
}

// GormTaskHistoryRepository persists TaskNode lifecycle transitions,
// implementing taskexec.HistoryRecorder over GORM/SQLite. Grounded on
// GormContainerLogRepository's shape (db handle + clock for the recorded
// timestamp), minus that repository's time-windowed deduplication: every
// transition here is meaningful (a distinct lifecycle phase), so nothing to
// dedup against.
type GormTaskHistoryRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormTaskHistoryRepository creates a task history repository. If clock
// is nil, uses RealClock (production behavior).
func NewGormTaskHistoryRepository(db *gorm.DB, clock shared.Clock) *GormTaskHistoryRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormTaskHistoryRepository{db: db, clock: clock}
}

// RecordTransition persists one TaskNode's status snapshot, implementing
// taskexec.HistoryRecorder.
func (r *GormTaskHistoryRepository) RecordTransition(ctx context.Context, sessionID string, nodeID taskgraph.NodeID, nodeName string, status taskgraph.Status) error {
	entry := &TaskHistoryModel{
		SessionID:  sessionID,
		NodeID:     uint64(nodeID),
		NodeName:   nodeName,
		Phase:      status.Phase.String(),
		ActionID:   status.ActionID,
		Tick:       status.Tick,
		Message:    status.Message,
		RecordedAt: r.clock.Now(),
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record task transition: %w", err)
	}
	return nil
}

// ListBySession retrieves every recorded transition for a session, ordered
// by recording time, for an operator inspecting how a plan actually ran.
func (r *GormTaskHistoryRepository) ListBySession(ctx context.Context, sessionID string) ([]TaskHistoryEntry, error) {
	var models []TaskHistoryModel
	result := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("recorded_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list task history: %w", result.Error)
	}

	entries := make([]TaskHistoryEntry, len(models))
	for i, model := range models {
		entries[i] = TaskHistoryEntry{
			ID:         model.ID,
			SessionID:  model.SessionID,
			NodeID:     taskgraph.NodeID(model.NodeID),
			NodeName:   model.NodeName,
			Phase:      model.Phase,
			ActionID:   model.ActionID,
			Tick:       model.Tick,
			Message:    model.Message,
			RecordedAt: model.RecordedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		}
	}
	return entries, nil
}
