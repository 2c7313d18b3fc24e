package worklog

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/balkashynov/worklog/internal/db"
	"github.com/balkashynov/worklog/internal/history"
	"github.com/balkashynov/worklog/internal/models"
	"github.com/balkashynov/worklog/internal/timecalc"
)

var (
	// ErrInvalidTransition means the requested action is illegal in the
	// current lifecycle state
	ErrInvalidTransition = errors.New("invalid transition for current state")
	// ErrNotFound means the referenced action or session does not exist
	ErrNotFound = errors.New("action not found")
	// ErrNotRevokable means the action exists but is outside the revoke
	// window or already revoked
	ErrNotRevokable = errors.New("action cannot be revoked")
)

// Config tunes a Manager. Zero values fall back to defaults.
type Config struct {
	NormMinutes int
	MaxHistory  int
	Logger      *slog.Logger
	Now         func() time.Time
}

// Manager owns the lifecycle state of today's work session. It is the
// only writer of session, action and break records. All mutating
// operations run to completion under one lock; the display ticker only
// reads.
type Manager struct {
	mu sync.RWMutex

	store   *db.Store
	calc    *timecalc.Calculator
	history *history.History
	logger  *slog.Logger
	now     func() time.Time

	session        *models.WorkSession
	state          models.WorklogState
	currentBreakID uint // 0 when no break is open

	tickerStop chan struct{}
	callback   func(models.TimeCalculation)
}

// New builds a Manager bound to the store and loads (or creates)
// today's session
func New(store *db.Store, cfg Config) (*Manager, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	calc := timecalc.New(cfg.NormMinutes)
	calc.Now = now

	m := &Manager{
		store:   store,
		calc:    calc,
		history: history.New(cfg.MaxHistory, logger),
		logger:  logger,
		now:     now,
		state:   models.StateNotStarted,
	}

	if err := m.loadToday(); err != nil {
		return nil, err
	}

	if m.state == models.StateWorking {
		m.startTicker()
	}

	return m, nil
}

// loadToday loads the existing session for today or creates a fresh one
func (m *Manager) loadToday() error {
	today := m.now().Format("2006-01-02")

	session, err := m.store.SessionByDate(today)
	if err != nil {
		return fmt.Errorf("failed to load session for %s: %w", today, err)
	}

	if session == nil {
		session, err = m.store.CreateSession(today)
		if err != nil {
			return err
		}
		m.logger.Info("created new session", "date", today)
	} else {
		m.logger.Info("loaded existing session", "date", today)
	}

	m.session = session
	m.state = session.Status

	// Recover the open break pointer after a restart
	m.currentBreakID = 0
	if m.state == models.StateOnBreak {
		breaks, err := m.store.SessionBreaks(session.ID)
		if err != nil {
			return err
		}
		for _, b := range breaks {
			if b.Open() {
				m.currentBreakID = b.ID
			}
		}
	}

	return nil
}

// CanPerform reports whether the action is legal in the current state
func (m *Manager) CanPerform(action models.ActionType) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return allowed(m.state, action)
}

// CurrentState returns the current lifecycle state
func (m *Manager) CurrentState() models.WorklogState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Session returns the current work session record
func (m *Manager) Session() *models.WorkSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// CurrentCalculations recomputes the metric snapshot for today from the
// action log and break periods
func (m *Manager) CurrentCalculations() (models.TimeCalculation, error) {
	m.mu.RLock()
	session := m.session
	m.mu.RUnlock()

	if session == nil {
		return models.TimeCalculation{}, nil
	}

	actions, err := m.store.SessionActions(session.ID)
	if err != nil {
		return models.TimeCalculation{}, err
	}
	breaks, err := m.store.SessionBreaks(session.ID)
	if err != nil {
		return models.TimeCalculation{}, err
	}

	return m.calc.Calculate(actions, breaks), nil
}

// HistorySummary returns display rows for the most recent actions
func (m *Manager) HistorySummary(limit int) []history.Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.history.HistorySummary(limit)
}

// History exposes the undo ledger (used by backup round trips)
func (m *Manager) History() *history.History {
	return m.history
}

// StartDay transitions NotStarted -> Working
func (m *Manager) StartDay() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !allowed(m.state, models.ActionStartDay) {
		m.logger.Warn("cannot start day", "state", m.state)
		return fmt.Errorf("start day in state %s: %w", m.state, ErrInvalidTransition)
	}

	ts := m.now()
	stateBefore := m.state
	sessionBefore := m.sessionData()

	err := m.store.Transaction(func(tx *db.Store) error {
		if _, err := tx.LogAction(m.session.ID, models.ActionStartDay, ts, nil, ""); err != nil {
			return err
		}
		status := models.StateWorking
		return tx.UpdateSession(m.session.ID, db.SessionUpdate{StartTime: &ts, Status: &status})
	})
	if err != nil {
		m.logger.Error("failed to start day", "error", err)
		return fmt.Errorf("failed to start day: %w", err)
	}

	m.state = resultState[models.ActionStartDay]
	m.refreshSession()
	m.recordHistory(models.ActionStartDay, ts, stateBefore, sessionBefore, nil)
	m.startTicker()

	m.logger.Info("work day started")
	return nil
}

// Stop transitions Working -> OnBreak, opening a break period
func (m *Manager) Stop(breakType models.BreakType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if breakType == "" {
		breakType = models.BreakGeneral
	}

	if !allowed(m.state, models.ActionStop) {
		m.logger.Warn("cannot stop work", "state", m.state)
		return fmt.Errorf("stop in state %s: %w", m.state, ErrInvalidTransition)
	}

	ts := m.now()
	stateBefore := m.state
	sessionBefore := m.sessionData()

	var created *models.BreakPeriod
	err := m.store.Transaction(func(tx *db.Store) error {
		if _, err := tx.LogAction(m.session.ID, models.ActionStop, ts, &breakType, ""); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateBreak(m.session.ID, breakType, ts)
		if err != nil {
			return err
		}
		status := models.StateOnBreak
		return tx.UpdateSession(m.session.ID, db.SessionUpdate{Status: &status})
	})
	if err != nil {
		m.logger.Error("failed to stop work", "error", err)
		return fmt.Errorf("failed to stop work: %w", err)
	}

	m.currentBreakID = created.ID
	m.state = resultState[models.ActionStop]
	m.refreshSession()
	m.recordHistory(models.ActionStop, ts, stateBefore, sessionBefore, &history.BreakData{
		BreakID:   created.ID,
		BreakType: breakType,
		StartTime: ts,
	})

	m.logger.Info("work stopped", "break", breakType)
	return nil
}

// ContinueWork transitions OnBreak -> Working, closing the open break
func (m *Manager) ContinueWork() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !allowed(m.state, models.ActionContinue) {
		m.logger.Warn("cannot continue work", "state", m.state)
		return fmt.Errorf("continue in state %s: %w", m.state, ErrInvalidTransition)
	}

	ts := m.now()
	stateBefore := m.state
	sessionBefore := m.sessionData()

	var breakData *history.BreakData
	err := m.store.Transaction(func(tx *db.Store) error {
		if m.currentBreakID != 0 {
			current, err := tx.BreakByID(m.currentBreakID)
			if err != nil {
				return err
			}
			if current != nil {
				durationSeconds := int(ts.Sub(current.StartTime).Seconds())
				if durationSeconds < 0 {
					durationSeconds = 0
				}
				durationMinutes := durationSeconds / 60

				if err := tx.EndBreak(current.ID, ts, durationMinutes); err != nil {
					return err
				}

				end := ts
				breakData = &history.BreakData{
					BreakID:         current.ID,
					BreakType:       current.BreakType,
					StartTime:       current.StartTime,
					EndTime:         &end,
					DurationMinutes: durationMinutes,
				}
			}
		}

		if _, err := tx.LogAction(m.session.ID, models.ActionContinue, ts, nil, ""); err != nil {
			return err
		}
		status := models.StateWorking
		return tx.UpdateSession(m.session.ID, db.SessionUpdate{Status: &status})
	})
	if err != nil {
		m.logger.Error("failed to continue work", "error", err)
		return fmt.Errorf("failed to continue work: %w", err)
	}

	m.currentBreakID = 0
	m.state = resultState[models.ActionContinue]
	m.refreshSession()
	m.recordHistory(models.ActionContinue, ts, stateBefore, sessionBefore, breakData)

	m.logger.Info("work continued after break")
	return nil
}

// EndDay transitions Working/OnBreak -> DayEnded, closing any open
// break and persisting final duration totals
func (m *Manager) EndDay() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !allowed(m.state, models.ActionEndDay) {
		m.logger.Warn("cannot end day", "state", m.state)
		return fmt.Errorf("end day in state %s: %w", m.state, ErrInvalidTransition)
	}

	ts := m.now()
	stateBefore := m.state
	sessionBefore := m.sessionData()

	err := m.store.Transaction(func(tx *db.Store) error {
		if m.state == models.StateOnBreak && m.currentBreakID != 0 {
			current, err := tx.BreakByID(m.currentBreakID)
			if err != nil {
				return err
			}
			if current != nil {
				durationSeconds := int(ts.Sub(current.StartTime).Seconds())
				if durationSeconds < 0 {
					durationSeconds = 0
				}
				if err := tx.EndBreak(current.ID, ts, durationSeconds/60); err != nil {
					return err
				}
			}
		}

		if _, err := tx.LogAction(m.session.ID, models.ActionEndDay, ts, nil, ""); err != nil {
			return err
		}

		// Final totals from the full log, including the end action
		actions, err := tx.SessionActions(m.session.ID)
		if err != nil {
			return err
		}
		breaks, err := tx.SessionBreaks(m.session.ID)
		if err != nil {
			return err
		}
		calc := m.calc.Calculate(actions, breaks)

		status := models.StateDayEnded
		return tx.UpdateSession(m.session.ID, db.SessionUpdate{
			EndTime:           &ts,
			Status:            &status,
			TotalWorkMinutes:  &calc.TotalWorkMinutes,
			TotalBreakMinutes: &calc.TotalBreakMinutes,
			ProductiveMinutes: &calc.ProductiveMinutes,
			OvertimeMinutes:   &calc.OvertimeMinutes,
		})
	})
	if err != nil {
		m.logger.Error("failed to end day", "error", err)
		return fmt.Errorf("failed to end day: %w", err)
	}

	m.currentBreakID = 0
	m.state = resultState[models.ActionEndDay]
	m.refreshSession()
	m.recordHistory(models.ActionEndDay, ts, stateBefore, sessionBefore, nil)
	m.stopTicker()

	m.logger.Info("work day ended")
	return nil
}

// ResetDay wipes every record of today's session and starts over with a
// fresh NotStarted one. Destructive and irreversible: no undo entry is
// written and the action history is cleared.
func (m *Manager) ResetDay() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return fmt.Errorf("no current session to reset")
	}

	m.stopTicker()
	sessionID := m.session.ID
	today := m.now().Format("2006-01-02")

	err := m.store.Transaction(func(tx *db.Store) error {
		if err := tx.DeleteSessionBreaks(sessionID); err != nil {
			return err
		}
		if err := tx.DeleteSessionActions(sessionID); err != nil {
			return err
		}
		return tx.DeleteSession(sessionID)
	})
	if err != nil {
		m.logger.Error("failed to reset day", "error", err)
		return fmt.Errorf("failed to reset day: %w", err)
	}

	m.history.Clear()
	m.currentBreakID = 0
	m.state = models.StateNotStarted

	session, err := m.store.CreateSession(today)
	if err != nil {
		return fmt.Errorf("failed to create fresh session: %w", err)
	}
	m.session = session

	m.logger.Info("reset day", "date", today)
	return nil
}

// Close stops the display ticker. The store stays open; it belongs to
// the caller.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTicker()
}

// sessionData snapshots the restoration-relevant session fields.
// Callers hold the lock.
func (m *Manager) sessionData() history.SessionData {
	if m.session == nil {
		return history.SessionData{}
	}
	return history.SessionData{
		SessionID: m.session.ID,
		StartTime: m.session.StartTime,
		EndTime:   m.session.EndTime,
		Status:    m.session.Status,
	}
}

// refreshSession reloads the session row from the store. Callers hold
// the lock.
func (m *Manager) refreshSession() {
	if m.session == nil {
		return
	}
	updated, err := m.store.SessionByDate(m.session.Date)
	if err != nil {
		m.logger.Error("failed to refresh session", "error", err)
		return
	}
	if updated != nil {
		m.session = updated
	}
}

// recordHistory appends a full snapshot of the transition to the undo
// ledger. Callers hold the lock; the session has been refreshed already.
func (m *Manager) recordHistory(action models.ActionType, ts time.Time, stateBefore models.WorklogState, sessionBefore history.SessionData, breakData *history.BreakData) {
	m.history.Record(history.Snapshot{
		ActionType:    action,
		Timestamp:     ts,
		StateBefore:   stateBefore,
		StateAfter:    m.state,
		SessionBefore: sessionBefore,
		SessionAfter:  m.sessionData(),
		Break:         breakData,
	})
}
