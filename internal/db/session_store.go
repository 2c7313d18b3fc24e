package db

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/worklog/internal/models"
)

// CreateSession creates a new work session for the given date (YYYY-MM-DD)
func (s *Store) CreateSession(date string) (*models.WorkSession, error) {
	session := models.WorkSession{
		Date:   date,
		Status: models.StateNotStarted,
	}

	if err := s.db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session for %s: %w", date, err)
	}

	return &session, nil
}

// SessionByDate returns the session for a date, or nil if none exists
func (s *Store) SessionByDate(date string) (*models.WorkSession, error) {
	var session models.WorkSession

	err := s.db.Where("date = ?", date).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // No session for this date is not an error
	}
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// SessionUpdate carries the mutable session fields for UpdateSession.
// Pointer fields left nil are not touched; SetStartNull/SetEndNull
// clear the corresponding timestamp explicitly.
type SessionUpdate struct {
	StartTime         *time.Time
	EndTime           *time.Time
	SetStartNull      bool
	SetEndNull        bool
	Status            *models.WorklogState
	TotalWorkMinutes  *int
	TotalBreakMinutes *int
	ProductiveMinutes *int
	OvertimeMinutes   *int
}

// UpdateSession applies the given field changes to a session row
func (s *Store) UpdateSession(sessionID uint, upd SessionUpdate) error {
	fields := map[string]interface{}{}

	if upd.StartTime != nil {
		fields["start_time"] = *upd.StartTime
	}
	if upd.SetStartNull {
		fields["start_time"] = nil
	}
	if upd.EndTime != nil {
		fields["end_time"] = *upd.EndTime
	}
	if upd.SetEndNull {
		fields["end_time"] = nil
	}
	if upd.Status != nil {
		fields["status"] = *upd.Status
	}
	if upd.TotalWorkMinutes != nil {
		fields["total_work_minutes"] = *upd.TotalWorkMinutes
	}
	if upd.TotalBreakMinutes != nil {
		fields["total_break_minutes"] = *upd.TotalBreakMinutes
	}
	if upd.ProductiveMinutes != nil {
		fields["productive_minutes"] = *upd.ProductiveMinutes
	}
	if upd.OvertimeMinutes != nil {
		fields["overtime_minutes"] = *upd.OvertimeMinutes
	}

	if len(fields) == 0 {
		return nil
	}

	result := s.db.Model(&models.WorkSession{}).Where("id = ?", sessionID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("session #%d not found", sessionID)
	}

	return nil
}

// DeleteSession removes a work session row
func (s *Store) DeleteSession(sessionID uint) error {
	return s.db.Delete(&models.WorkSession{}, sessionID).Error
}

// SessionsInRange returns ended-or-started sessions whose date falls
// within [from, to], both YYYY-MM-DD inclusive, ordered by date
func (s *Store) SessionsInRange(from, to string) ([]models.WorkSession, error) {
	var sessions []models.WorkSession

	err := s.db.Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}
