package db

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/worklog/internal/models"
)

// CreateBreak opens a new break period for a session
func (s *Store) CreateBreak(sessionID uint, breakType models.BreakType, startTime time.Time) (*models.BreakPeriod, error) {
	period := models.BreakPeriod{
		SessionID: sessionID,
		BreakType: breakType,
		StartTime: startTime,
	}

	if err := s.db.Create(&period).Error; err != nil {
		return nil, fmt.Errorf("failed to create %s break: %w", breakType, err)
	}

	return &period, nil
}

// EndBreak closes a break period with its end time and duration
func (s *Store) EndBreak(breakID uint, endTime time.Time, durationMinutes int) error {
	result := s.db.Model(&models.BreakPeriod{}).Where("id = ?", breakID).Updates(map[string]interface{}{
		"end_time":         endTime,
		"duration_minutes": durationMinutes,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("break #%d not found", breakID)
	}

	return nil
}

// ReopenBreak clears a break period's end time and duration, making it
// the open break again. Used when a continue action is revoked.
func (s *Store) ReopenBreak(breakID uint) error {
	result := s.db.Model(&models.BreakPeriod{}).Where("id = ?", breakID).Updates(map[string]interface{}{
		"end_time":         nil,
		"duration_minutes": nil,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("break #%d not found", breakID)
	}

	return nil
}

// DeleteBreak removes a break period row. Used when a stop action is revoked.
func (s *Store) DeleteBreak(breakID uint) error {
	result := s.db.Delete(&models.BreakPeriod{}, breakID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("break #%d not found", breakID)
	}

	return nil
}

// BreakByID returns a single break period, or nil if it does not exist
func (s *Store) BreakByID(breakID uint) (*models.BreakPeriod, error) {
	var period models.BreakPeriod

	err := s.db.First(&period, breakID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &period, nil
}

// SessionBreaks returns all break periods for a session in creation order
func (s *Store) SessionBreaks(sessionID uint) ([]models.BreakPeriod, error) {
	var breaks []models.BreakPeriod

	err := s.db.Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&breaks).Error
	if err != nil {
		return nil, err
	}

	return breaks, nil
}

// BreaksInRange returns break periods starting within [from, to]
func (s *Store) BreaksInRange(from, to time.Time) ([]models.BreakPeriod, error) {
	var breaks []models.BreakPeriod

	err := s.db.Where("start_time >= ? AND start_time <= ?", from, to).
		Order("start_time ASC").
		Find(&breaks).Error
	if err != nil {
		return nil, err
	}

	return breaks, nil
}

// DeleteSessionBreaks removes every break period for a session
func (s *Store) DeleteSessionBreaks(sessionID uint) error {
	return s.db.Where("session_id = ?", sessionID).Delete(&models.BreakPeriod{}).Error
}
