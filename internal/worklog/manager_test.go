package worklog

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/worklog/internal/db"
	"github.com/balkashynov/worklog/internal/models"
)

// testClock is a manually advanced clock injected through Config.Now
type testClock struct {
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) now() time.Time {
	return c.current
}

func (c *testClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "worklog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestManager(t *testing.T) (*Manager, *testClock) {
	t.Helper()
	clock := newTestClock()
	m, err := New(newTestStore(t), Config{
		Logger: testLogger(),
		Now:    clock.now,
	})
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m, clock
}

func TestNewCreatesTodaySession(t *testing.T) {
	m, clock := newTestManager(t)

	assert.Equal(t, models.StateNotStarted, m.CurrentState())

	session := m.Session()
	require.NotNil(t, session)
	assert.Equal(t, clock.now().Format("2006-01-02"), session.Date)
	assert.Nil(t, session.StartTime)
	assert.Nil(t, session.EndTime)
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		state   models.WorklogState
		drive   func(m *Manager)
		allowed map[models.ActionType]bool
	}{
		{
			state: models.StateNotStarted,
			drive: func(m *Manager) {},
			allowed: map[models.ActionType]bool{
				models.ActionStartDay: true,
			},
		},
		{
			state: models.StateWorking,
			drive: func(m *Manager) {
				require.NoError(t, m.StartDay())
			},
			allowed: map[models.ActionType]bool{
				models.ActionStop:   true,
				models.ActionEndDay: true,
			},
		},
		{
			state: models.StateOnBreak,
			drive: func(m *Manager) {
				require.NoError(t, m.StartDay())
				require.NoError(t, m.Stop(models.BreakGeneral))
			},
			allowed: map[models.ActionType]bool{
				models.ActionContinue: true,
				models.ActionEndDay:   true,
			},
		},
		{
			state: models.StateDayEnded,
			drive: func(m *Manager) {
				require.NoError(t, m.StartDay())
				require.NoError(t, m.EndDay())
			},
			allowed: map[models.ActionType]bool{},
		},
	}

	actions := []models.ActionType{
		models.ActionStartDay,
		models.ActionStop,
		models.ActionContinue,
		models.ActionEndDay,
	}

	for _, tc := range cases {
		t.Run(string(tc.state), func(t *testing.T) {
			m, _ := newTestManager(t)
			tc.drive(m)
			require.Equal(t, tc.state, m.CurrentState())

			for _, action := range actions {
				assert.Equal(t, tc.allowed[action], m.CanPerform(action),
					"%s in state %s", action, tc.state)
			}
		})
	}
}

func TestStartDay(t *testing.T) {
	m, clock := newTestManager(t)

	require.NoError(t, m.StartDay())

	assert.Equal(t, models.StateWorking, m.CurrentState())

	session := m.Session()
	require.NotNil(t, session.StartTime)
	assert.True(t, session.StartTime.Equal(clock.now()))
	assert.Equal(t, models.StateWorking, session.Status)

	actions, err := m.store.SessionActions(session.ID)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionStartDay, actions[0].ActionType)

	assert.Equal(t, 1, m.History().Len())
}

func TestRejectedTransitionLeavesNoTrace(t *testing.T) {
	m, _ := newTestManager(t)

	assert.ErrorIs(t, m.Stop(models.BreakCoffee), ErrInvalidTransition)
	assert.ErrorIs(t, m.ContinueWork(), ErrInvalidTransition)
	assert.ErrorIs(t, m.EndDay(), ErrInvalidTransition)

	assert.Equal(t, models.StateNotStarted, m.CurrentState())
	assert.Zero(t, m.History().Len())

	actions, err := m.store.SessionActions(m.Session().ID)
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestDoubleStartRejected(t *testing.T) {
	m, _ := newTestManager(t)

	require.NoError(t, m.StartDay())
	assert.ErrorIs(t, m.StartDay(), ErrInvalidTransition)
	assert.Equal(t, 1, m.History().Len())
}

func TestStopOpensBreak(t *testing.T) {
	m, clock := newTestManager(t)

	require.NoError(t, m.StartDay())
	clock.advance(time.Hour)
	require.NoError(t, m.Stop(models.BreakLunch))

	assert.Equal(t, models.StateOnBreak, m.CurrentState())

	breaks, err := m.store.SessionBreaks(m.Session().ID)
	require.NoError(t, err)
	require.Len(t, breaks, 1)
	assert.Equal(t, models.BreakLunch, breaks[0].BreakType)
	assert.True(t, breaks[0].Open())

	last := m.History().LastAction()
	require.NotNil(t, last)
	require.NotNil(t, last.Break)
	assert.Equal(t, breaks[0].ID, last.Break.BreakID)
}

func TestStopDefaultsToGeneralBreak(t *testing.T) {
	m, _ := newTestManager(t)

	require.NoError(t, m.StartDay())
	require.NoError(t, m.Stop(""))

	breaks, err := m.store.SessionBreaks(m.Session().ID)
	require.NoError(t, err)
	require.Len(t, breaks, 1)
	assert.Equal(t, models.BreakGeneral, breaks[0].BreakType)
}

func TestContinueClosesBreak(t *testing.T) {
	m, clock := newTestManager(t)

	require.NoError(t, m.StartDay())
	clock.advance(time.Hour)
	require.NoError(t, m.Stop(models.BreakCoffee))
	clock.advance(15 * time.Minute)
	require.NoError(t, m.ContinueWork())

	assert.Equal(t, models.StateWorking, m.CurrentState())

	breaks, err := m.store.SessionBreaks(m.Session().ID)
	require.NoError(t, err)
	require.Len(t, breaks, 1)
	require.False(t, breaks[0].Open())
	assert.True(t, breaks[0].EndTime.Equal(clock.now()))
	require.NotNil(t, breaks[0].DurationMinutes)
	assert.Equal(t, 15, *breaks[0].DurationMinutes)
}

func TestFullDayAccounting(t *testing.T) {
	m, clock := newTestManager(t)

	// 9:00 start, 12:00 lunch, 12:30 continue, 17:00 end
	require.NoError(t, m.StartDay())
	clock.advance(3 * time.Hour)
	require.NoError(t, m.Stop(models.BreakLunch))
	clock.advance(30 * time.Minute)
	require.NoError(t, m.ContinueWork())
	clock.advance(4*time.Hour + 30*time.Minute)
	require.NoError(t, m.EndDay())

	assert.Equal(t, models.StateDayEnded, m.CurrentState())

	calc, err := m.CurrentCalculations()
	require.NoError(t, err)
	assert.Equal(t, 450, calc.TotalWorkMinutes)
	assert.Equal(t, 30, calc.TotalBreakMinutes)
	assert.Zero(t, calc.OvertimeMinutes)
	assert.Zero(t, calc.DeficitMinutes)
	assert.Zero(t, calc.CurrentSessionSeconds)
	assert.False(t, calc.IsOvertime)

	// Final totals persisted on the session row
	session := m.Session()
	require.NotNil(t, session.EndTime)
	assert.Equal(t, 450, session.TotalWorkMinutes)
	assert.Equal(t, 30, session.TotalBreakMinutes)
	assert.Equal(t, 450, session.ProductiveMinutes)
	assert.Zero(t, session.OvertimeMinutes)
}

func TestEndDayClosesOpenBreak(t *testing.T) {
	m, clock := newTestManager(t)

	require.NoError(t, m.StartDay())
	clock.advance(2 * time.Hour)
	require.NoError(t, m.Stop(models.BreakGeneral))
	clock.advance(20 * time.Minute)
	require.NoError(t, m.EndDay())

	breaks, err := m.store.SessionBreaks(m.Session().ID)
	require.NoError(t, err)
	require.Len(t, breaks, 1)
	require.False(t, breaks[0].Open())
	assert.Equal(t, 20, *breaks[0].DurationMinutes)

	calc, err := m.CurrentCalculations()
	require.NoError(t, err)
	assert.Equal(t, 120, calc.TotalWorkMinutes)
	assert.Equal(t, 20, calc.TotalBreakMinutes)
}

func TestOvertimePersisted(t *testing.T) {
	m, clock := newTestManager(t)

	require.NoError(t, m.StartDay())
	clock.advance(8 * time.Hour) // 480 minutes against a 450 norm
	require.NoError(t, m.EndDay())

	session := m.Session()
	assert.Equal(t, 480, session.TotalWorkMinutes)
	assert.Equal(t, 30, session.OvertimeMinutes)
}

func TestCurrentCalculationsWhileWorking(t *testing.T) {
	m, clock := newTestManager(t)

	require.NoError(t, m.StartDay())
	clock.advance(90 * time.Minute)

	calc, err := m.CurrentCalculations()
	require.NoError(t, err)
	// The open interval is the current session; worked time counts only
	// closed intervals
	assert.Equal(t, 90*60, calc.CurrentSessionSeconds)
	assert.Zero(t, calc.TotalWorkSeconds)
	assert.Equal(t, 450*60, calc.RemainingSeconds)
}

func TestResetDay(t *testing.T) {
	m, clock := newTestManager(t)

	require.NoError(t, m.StartDay())
	clock.advance(time.Hour)
	require.NoError(t, m.Stop(models.BreakLunch))
	oldID := m.Session().ID

	require.NoError(t, m.ResetDay())

	assert.Equal(t, models.StateNotStarted, m.CurrentState())
	assert.Zero(t, m.History().Len())

	session := m.Session()
	require.NotNil(t, session)
	assert.NotEqual(t, oldID, session.ID)
	assert.Nil(t, session.StartTime)

	actions, err := m.store.SessionActions(oldID)
	require.NoError(t, err)
	assert.Empty(t, actions)
	breaks, err := m.store.SessionBreaks(oldID)
	require.NoError(t, err)
	assert.Empty(t, breaks)

	// The fresh session accepts a new day
	require.NoError(t, m.StartDay())
}

func TestRestartRecoversOpenBreak(t *testing.T) {
	store := newTestStore(t)
	clock := newTestClock()

	m, err := New(store, Config{Logger: testLogger(), Now: clock.now})
	require.NoError(t, err)
	require.NoError(t, m.StartDay())
	clock.advance(time.Hour)
	require.NoError(t, m.Stop(models.BreakCoffee))
	m.Close()

	// A new process against the same store sees today's state
	restarted, err := New(store, Config{Logger: testLogger(), Now: clock.now})
	require.NoError(t, err)
	t.Cleanup(restarted.Close)

	assert.Equal(t, models.StateOnBreak, restarted.CurrentState())
	assert.Equal(t, m.Session().ID, restarted.Session().ID)

	// The recovered break pointer lets continue close the right period
	clock.advance(10 * time.Minute)
	require.NoError(t, restarted.ContinueWork())

	breaks, err := store.SessionBreaks(restarted.Session().ID)
	require.NoError(t, err)
	require.Len(t, breaks, 1)
	assert.False(t, breaks[0].Open())
}

func TestHistorySummaryAfterActions(t *testing.T) {
	m, clock := newTestManager(t)

	require.NoError(t, m.StartDay())
	clock.advance(time.Hour)
	require.NoError(t, m.Stop(models.BreakLunch))

	rows := m.HistorySummary(10)
	require.Len(t, rows, 2)
	assert.Equal(t, string(models.ActionStop), rows[0].ActionType)
	assert.Equal(t, string(models.ActionStartDay), rows[1].ActionType)
	assert.True(t, rows[0].CanRevoke)
}
