package worklog

import (
	"fmt"
	"time"

	"github.com/balkashynov/worklog/internal/db"
	"github.com/balkashynov/worklog/internal/history"
	"github.com/balkashynov/worklog/internal/models"
)

// actionLogMatchTolerance bounds the timestamp distance when pairing an
// undo-ledger snapshot with its action_log row. The two ledgers carry
// no shared id, so the match is by action type plus proximity.
const actionLogMatchTolerance = 5 * time.Second

// RevokeAction undoes a past transition: reverses its session/break
// side effects, flags the matching action_log row, marks the ledger
// entry revoked and restores the prior lifecycle state. Store mutations
// commit before the ledger flag flips, so a failure never leaves the
// ledger claiming an undo that did not happen.
func (m *Manager) RevokeAction(actionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	action := m.history.ByID(actionID)
	if action == nil {
		m.logger.Error("action not found", "id", actionID)
		return fmt.Errorf("revoke %s: %w", actionID, ErrNotFound)
	}

	if !m.history.CanRevoke(actionID) {
		m.logger.Error("action not revokable", "id", actionID)
		return fmt.Errorf("revoke %s: %w", actionID, ErrNotRevokable)
	}

	// For end_day the restored state comes from the next-most-recent
	// still-valid action, decided before the ledger changes
	restoreState := action.StateBefore
	if action.ActionType == models.ActionEndDay {
		restoreState = m.stateBeforeEndDay(actionID)
	}

	err := m.store.Transaction(func(tx *db.Store) error {
		if err := m.flagActionLogRow(tx, action); err != nil {
			return err
		}
		return m.reverseSideEffects(tx, action, restoreState)
	})
	if err != nil {
		m.logger.Error("failed to revoke action", "id", actionID, "error", err)
		return fmt.Errorf("failed to revoke %s action: %w", action.ActionType, err)
	}

	if err := m.history.Revoke(actionID, "User requested revoke"); err != nil {
		// Data was already restored; surface the ledger problem
		m.logger.Error("ledger revoke failed after restore", "id", actionID, "error", err)
		return err
	}

	m.applyRestoredState(action, restoreState)
	m.refreshSession()

	m.logger.Info("revoked action", "action", action.ActionType, "id", actionID)
	return nil
}

// stateBeforeEndDay inspects the revokable list for the action that
// preceded the end_day being undone. Defaults to Working when the
// end_day is the only entry. Callers hold the lock.
func (m *Manager) stateBeforeEndDay(actionID string) models.WorklogState {
	for _, candidate := range m.history.RevokableActions() {
		if candidate.ID == actionID {
			continue
		}
		return candidate.StateAfter
	}
	return models.StateWorking
}

// flagActionLogRow best-effort marks the action_log row matching the
// snapshot as revoked. The ledgers are matched by action type and
// timestamp proximity; an unmatched row is logged, not an error.
func (m *Manager) flagActionLogRow(tx *db.Store, action *history.Snapshot) error {
	if m.session == nil {
		return nil
	}

	rows, err := tx.SessionActions(m.session.ID)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if row.ActionType != action.ActionType {
			continue
		}
		delta := row.Timestamp.Sub(action.Timestamp)
		if delta < 0 {
			delta = -delta
		}
		if delta < actionLogMatchTolerance {
			return tx.RevokeAction(row.ID)
		}
	}

	m.logger.Warn("no action_log row matched snapshot", "action", action.ActionType, "timestamp", action.Timestamp)
	return nil
}

// reverseSideEffects applies the per-type store restoration for the
// action being undone
func (m *Manager) reverseSideEffects(tx *db.Store, action *history.Snapshot, restoreState models.WorklogState) error {
	if m.session == nil {
		return nil
	}

	switch action.ActionType {
	case models.ActionStartDay:
		status := models.StateNotStarted
		return tx.UpdateSession(m.session.ID, db.SessionUpdate{SetStartNull: true, Status: &status})

	case models.ActionEndDay:
		return tx.UpdateSession(m.session.ID, db.SessionUpdate{SetEndNull: true, Status: &restoreState})

	case models.ActionStop:
		if action.Break != nil {
			if err := tx.DeleteBreak(action.Break.BreakID); err != nil {
				return err
			}
		}
		status := action.StateBefore
		return tx.UpdateSession(m.session.ID, db.SessionUpdate{Status: &status})

	case models.ActionContinue:
		if action.Break != nil {
			if err := tx.ReopenBreak(action.Break.BreakID); err != nil {
				return err
			}
		}
		status := action.StateBefore
		return tx.UpdateSession(m.session.ID, db.SessionUpdate{Status: &status})
	}

	return nil
}

// applyRestoredState updates the in-memory lifecycle state and break
// pointer after a successful revoke. Callers hold the lock.
func (m *Manager) applyRestoredState(action *history.Snapshot, restoreState models.WorklogState) {
	switch action.ActionType {
	case models.ActionStartDay:
		m.state = models.StateNotStarted
		m.stopTicker()

	case models.ActionEndDay:
		m.state = restoreState
		if restoreState == models.StateWorking {
			m.startTicker()
		}

	case models.ActionStop:
		m.state = action.StateBefore
		m.currentBreakID = 0

	case models.ActionContinue:
		m.state = action.StateBefore
		if action.Break != nil {
			m.currentBreakID = action.Break.BreakID
		}
	}
}
