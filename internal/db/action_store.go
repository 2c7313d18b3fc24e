package db

import (
	"fmt"
	"time"

	"github.com/balkashynov/worklog/internal/models"
)

// LogAction appends an entry to the action log and returns it
func (s *Store) LogAction(sessionID uint, actionType models.ActionType, timestamp time.Time, breakType *models.BreakType, notes string) (*models.ActionLog, error) {
	entry := models.ActionLog{
		SessionID:  sessionID,
		ActionType: actionType,
		Timestamp:  timestamp,
		BreakType:  breakType,
		Notes:      notes,
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to log %s action: %w", actionType, err)
	}

	return &entry, nil
}

// SessionActions returns the non-revoked actions for a session in
// chronological order
func (s *Store) SessionActions(sessionID uint) ([]models.ActionLog, error) {
	var actions []models.ActionLog

	err := s.db.Where("session_id = ? AND revoked = ?", sessionID, false).
		Order("timestamp ASC, id ASC").
		Find(&actions).Error
	if err != nil {
		return nil, err
	}

	return actions, nil
}

// ActionsInRange returns non-revoked actions whose timestamp falls in
// [from, to], ordered chronologically
func (s *Store) ActionsInRange(from, to time.Time) ([]models.ActionLog, error) {
	var actions []models.ActionLog

	err := s.db.Where("timestamp >= ? AND timestamp <= ? AND revoked = ?", from, to, false).
		Order("timestamp ASC, id ASC").
		Find(&actions).Error
	if err != nil {
		return nil, err
	}

	return actions, nil
}

// RevokeAction flags an action log row as revoked. The row itself is
// kept; calculations skip revoked entries.
func (s *Store) RevokeAction(actionID uint) error {
	result := s.db.Model(&models.ActionLog{}).Where("id = ?", actionID).Update("revoked", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("action #%d not found", actionID)
	}

	return nil
}

// DeleteSessionActions removes every action log row for a session
func (s *Store) DeleteSessionActions(sessionID uint) error {
	return s.db.Where("session_id = ?", sessionID).Delete(&models.ActionLog{}).Error
}
