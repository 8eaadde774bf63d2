package persistence

import "time"

// TaskHistoryModel represents the task_history table: one row per TaskNode
// lifecycle transition (Planned -> Running -> Success|Failed), correlated by
// SessionID with the ProcessSupervisor run that executed the plan.
type TaskHistoryModel struct {
	ID         int       `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID  string    `gorm:"column:session_id;not null;index:idx_task_history_session"`
	NodeID     uint64    `gorm:"column:node_id;not null;index:idx_task_history_session"`
	NodeName   string    `gorm:"column:node_name;not null"`
	Phase      string    `gorm:"column:phase;not null"`
	ActionID   uint32    `gorm:"column:action_id"`
	Tick       uint64    `gorm:"column:tick;not null"`
	Message    string    `gorm:"column:message;type:text"`
	RecordedAt time.Time `gorm:"column:recorded_at;not null;index:idx_task_history_recorded_at"`
}

func (TaskHistoryModel) TableName() string {
	return "task_history"
}
