package models

import (
	"time"
)

// WorkSession represents one work day, unique per calendar date
type WorkSession struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Date              string       `gorm:"not null;uniqueIndex" json:"date"` // YYYY-MM-DD
	StartTime         *time.Time   `json:"start_time"`
	EndTime           *time.Time   `json:"end_time"`
	TotalWorkMinutes  int          `gorm:"default:0" json:"total_work_minutes"`
	TotalBreakMinutes int          `gorm:"default:0" json:"total_break_minutes"`
	ProductiveMinutes int          `gorm:"default:0" json:"productive_minutes"`
	OvertimeMinutes   int          `gorm:"default:0" json:"overtime_minutes"`
	Status            WorklogState `gorm:"default:not_started" json:"status"`

	// Relationships
	Actions []ActionLog   `gorm:"foreignKey:SessionID" json:"actions,omitempty"`
	Breaks  []BreakPeriod `gorm:"foreignKey:SessionID" json:"breaks,omitempty"`
}

// ActionLog is an append-only record of a single transition.
// Rows are never updated after insert except for the Revoked flag.
type ActionLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SessionID  uint       `gorm:"not null;index" json:"session_id"`
	ActionType ActionType `gorm:"not null" json:"action_type"`
	Timestamp  time.Time  `gorm:"not null" json:"timestamp"`
	BreakType  *BreakType `json:"break_type"`
	Notes      string     `json:"notes"`
	Revoked    bool       `gorm:"default:false" json:"revoked"`
}

// BreakPeriod represents one break instance within a session.
// EndTime and DurationMinutes stay null while the break is open.
type BreakPeriod struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SessionID       uint       `gorm:"not null;index" json:"session_id"`
	BreakType       BreakType  `gorm:"not null" json:"break_type"`
	StartTime       time.Time  `gorm:"not null" json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationMinutes *int       `json:"duration_minutes"`
}

// Open reports whether the break has not been closed yet
func (b BreakPeriod) Open() bool {
	return b.EndTime == nil
}
