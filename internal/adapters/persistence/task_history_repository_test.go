package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andrescamacho/factoriobot/internal/adapters/persistence"
	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/domain/taskgraph"
)

func newTaskHistoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&persistence.TaskHistoryModel{}))
	return db
}

func TestTaskHistoryRepository_RecordAndListBySession(t *testing.T) {
	db := newTaskHistoryTestDB(t)
	clock := shared.NewMockClock(time.Unix(0, 0))
	repo := persistence.NewGormTaskHistoryRepository(db, clock)

	status := taskgraph.Status{Phase: taskgraph.Running, ActionID: 7, Tick: 100}
	err := repo.RecordTransition(context.Background(), "session-1", taskgraph.NodeID(3), "Mining iron-ore", status)
	require.NoError(t, err)

	status = taskgraph.Status{Phase: taskgraph.Success, ActionID: 7, Tick: 150}
	err = repo.RecordTransition(context.Background(), "session-1", taskgraph.NodeID(3), "Mining iron-ore", status)
	require.NoError(t, err)

	err = repo.RecordTransition(context.Background(), "session-2", taskgraph.NodeID(1), "Walk to [1, 2]", taskgraph.Status{Phase: taskgraph.Planned})
	require.NoError(t, err)

	entries, err := repo.ListBySession(context.Background(), "session-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, taskgraph.NodeID(3), entries[0].NodeID)
	assert.Equal(t, "running", entries[0].Phase)
	assert.Equal(t, "success", entries[1].Phase)
	assert.EqualValues(t, 7, entries[1].ActionID)
}

func TestTaskHistoryRepository_RecordsFailureMessage(t *testing.T) {
	db := newTaskHistoryTestDB(t)
	repo := persistence.NewGormTaskHistoryRepository(db, nil)

	status := taskgraph.Status{Phase: taskgraph.Failed, Tick: 200, Message: "no path found"}
	err := repo.RecordTransition(context.Background(), "session-3", taskgraph.NodeID(9), "Walk to [5, 5]", status)
	require.NoError(t, err)

	entries, err := repo.ListBySession(context.Background(), "session-3")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "failed", entries[0].Phase)
	assert.Equal(t, "no path found", entries[0].Message)
}

func TestTaskHistoryRepository_ListBySessionReturnsEmptyForUnknownSession(t *testing.T) {
	db := newTaskHistoryTestDB(t)
	repo := persistence.NewGormTaskHistoryRepository(db, nil)

	entries, err := repo.ListBySession(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
