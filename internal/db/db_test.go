package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/worklog/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "worklog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSessionLifecycle(t *testing.T) {
	store := testStore(t)

	created, err := store.CreateSession("2026-09-01")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, models.StateNotStarted, created.Status)

	loaded, err := store.SessionByDate("2026-09-01")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, created.ID, loaded.ID)

	missing, err := store.SessionByDate("2026-09-02")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDuplicateSessionDateRejected(t *testing.T) {
	store := testStore(t)

	_, err := store.CreateSession("2026-09-01")
	require.NoError(t, err)

	_, err = store.CreateSession("2026-09-01")
	assert.Error(t, err, "date carries a unique index")
}

func TestUpdateSession(t *testing.T) {
	store := testStore(t)

	session, err := store.CreateSession("2026-09-01")
	require.NoError(t, err)

	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	status := models.StateWorking
	require.NoError(t, store.UpdateSession(session.ID, SessionUpdate{StartTime: &start, Status: &status}))

	loaded, err := store.SessionByDate("2026-09-01")
	require.NoError(t, err)
	require.NotNil(t, loaded.StartTime)
	assert.True(t, loaded.StartTime.Equal(start))
	assert.Equal(t, models.StateWorking, loaded.Status)

	// Clearing the timestamp again
	require.NoError(t, store.UpdateSession(session.ID, SessionUpdate{SetStartNull: true}))
	loaded, err = store.SessionByDate("2026-09-01")
	require.NoError(t, err)
	assert.Nil(t, loaded.StartTime)

	// Empty update is a no-op, unknown id is an error
	assert.NoError(t, store.UpdateSession(session.ID, SessionUpdate{}))
	assert.Error(t, store.UpdateSession(9999, SessionUpdate{Status: &status}))
}

func TestActionLogRevokedFiltered(t *testing.T) {
	store := testStore(t)

	session, err := store.CreateSession("2026-09-01")
	require.NoError(t, err)

	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	first, err := store.LogAction(session.ID, models.ActionStartDay, base, nil, "")
	require.NoError(t, err)
	coffee := models.BreakCoffee
	_, err = store.LogAction(session.ID, models.ActionStop, base.Add(time.Hour), &coffee, "")
	require.NoError(t, err)

	actions, err := store.SessionActions(session.ID)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, models.ActionStartDay, actions[0].ActionType)

	require.NoError(t, store.RevokeAction(first.ID))

	actions, err = store.SessionActions(session.ID)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionStop, actions[0].ActionType)

	assert.Error(t, store.RevokeAction(9999))
}

func TestBreakLifecycle(t *testing.T) {
	store := testStore(t)

	session, err := store.CreateSession("2026-09-01")
	require.NoError(t, err)

	start := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	period, err := store.CreateBreak(session.ID, models.BreakLunch, start)
	require.NoError(t, err)
	assert.True(t, period.Open())

	end := start.Add(30 * time.Minute)
	require.NoError(t, store.EndBreak(period.ID, end, 30))

	loaded, err := store.BreakByID(period.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.False(t, loaded.Open())
	assert.Equal(t, 30, *loaded.DurationMinutes)

	require.NoError(t, store.ReopenBreak(period.ID))
	loaded, err = store.BreakByID(period.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Open())

	require.NoError(t, store.DeleteBreak(period.ID))
	loaded, err = store.BreakByID(period.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	assert.Error(t, store.DeleteBreak(period.ID), "double delete must fail")
}

func TestTransactionRollsBack(t *testing.T) {
	store := testStore(t)

	session, err := store.CreateSession("2026-09-01")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.Transaction(func(tx *Store) error {
		if _, err := tx.LogAction(session.ID, models.ActionStartDay, time.Now(), nil, ""); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	actions, err := store.SessionActions(session.ID)
	require.NoError(t, err)
	assert.Empty(t, actions, "rolled-back action must not persist")
}

func TestRangeQueries(t *testing.T) {
	store := testStore(t)

	for _, date := range []string{"2026-08-30", "2026-08-31", "2026-09-01"} {
		_, err := store.CreateSession(date)
		require.NoError(t, err)
	}

	sessions, err := store.SessionsInRange("2026-08-31", "2026-09-01")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "2026-08-31", sessions[0].Date)
	assert.Equal(t, "2026-09-01", sessions[1].Date)
}
