package timecalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/worklog/internal/models"
)

var base = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func action(t models.ActionType, at time.Time) models.ActionLog {
	return models.ActionLog{ActionType: t, Timestamp: at}
}

func closedBreak(start, end time.Time) models.BreakPeriod {
	return models.BreakPeriod{StartTime: start, EndTime: &end}
}

func fixedCalc(norm int, now time.Time) *Calculator {
	c := New(norm)
	c.Now = func() time.Time { return now }
	return c
}

func TestWorkTimeRoundTrip(t *testing.T) {
	// start@9:00, stop@10:30, continue@11:00, end@16:00
	actions := []models.ActionLog{
		action(models.ActionStartDay, base),
		action(models.ActionStop, base.Add(90*time.Minute)),
		action(models.ActionContinue, base.Add(120*time.Minute)),
		action(models.ActionEndDay, base.Add(7*time.Hour)),
	}

	c := fixedCalc(450, base.Add(8*time.Hour))

	// (10:30-9:00) + (16:00-11:00) = 1.5h + 5h
	assert.Equal(t, int((90*time.Minute + 5*time.Hour).Seconds()), c.WorkTime(actions))
}

func TestWorkTimeEmptyLog(t *testing.T) {
	c := fixedCalc(450, base)

	calc := c.Calculate(nil, nil)

	assert.Zero(t, calc.TotalWorkSeconds)
	assert.Zero(t, calc.TotalBreakSeconds)
	assert.Zero(t, calc.CurrentSessionSeconds)
	assert.Equal(t, 450*60, calc.RemainingSeconds)
	assert.False(t, calc.IsOvertime)
}

func TestWorkTimeStopWithoutOpenMarker(t *testing.T) {
	c := fixedCalc(450, base)

	// A stray stop must not contribute or panic
	actions := []models.ActionLog{
		action(models.ActionStop, base),
		action(models.ActionStartDay, base.Add(time.Minute)),
		action(models.ActionEndDay, base.Add(11*time.Minute)),
	}

	assert.Equal(t, 600, c.WorkTime(actions))
}

func TestWorkTimeClockSkewClamped(t *testing.T) {
	c := fixedCalc(450, base)

	// end before start: negative interval clamps to zero
	actions := []models.ActionLog{
		action(models.ActionStartDay, base),
		action(models.ActionEndDay, base.Add(-time.Hour)),
	}

	assert.Zero(t, c.WorkTime(actions))
}

func TestCurrentSessionOpen(t *testing.T) {
	now := base.Add(2 * time.Hour)
	c := fixedCalc(450, now)

	actions := []models.ActionLog{
		action(models.ActionStartDay, base),
	}

	assert.Equal(t, int((2 * time.Hour).Seconds()), c.CurrentSession(actions))
}

func TestCurrentSessionClosed(t *testing.T) {
	c := fixedCalc(450, base.Add(3*time.Hour))

	actions := []models.ActionLog{
		action(models.ActionStartDay, base),
		action(models.ActionStop, base.Add(time.Hour)),
	}

	assert.Zero(t, c.CurrentSession(actions))
}

func TestCurrentSessionAfterContinue(t *testing.T) {
	now := base.Add(90 * time.Minute)
	c := fixedCalc(450, now)

	actions := []models.ActionLog{
		action(models.ActionStartDay, base),
		action(models.ActionStop, base.Add(30*time.Minute)),
		action(models.ActionContinue, base.Add(60*time.Minute)),
	}

	assert.Equal(t, int((30 * time.Minute).Seconds()), c.CurrentSession(actions))
}

func TestBreakTime(t *testing.T) {
	c := fixedCalc(450, base)

	duration := 20
	skewEnd := base.Add(-10 * time.Minute)
	breaks := []models.BreakPeriod{
		closedBreak(base, base.Add(15*time.Minute)),
		{StartTime: base, DurationMinutes: &duration}, // minutes only
		{StartTime: base, EndTime: &skewEnd},          // negative span -> 0
		{StartTime: base},                             // still open -> 0
	}

	assert.Equal(t, 15*60+20*60, c.BreakTime(breaks))
}

func TestCalculateOvertime(t *testing.T) {
	// 500 minutes worked against a 450 minute norm
	actions := []models.ActionLog{
		action(models.ActionStartDay, base),
		action(models.ActionEndDay, base.Add(500*time.Minute)),
	}

	c := fixedCalc(450, base.Add(500*time.Minute))
	calc := c.Calculate(actions, nil)

	assert.Equal(t, 50, calc.OvertimeMinutes)
	assert.Zero(t, calc.DeficitMinutes)
	assert.Zero(t, calc.RemainingMinutes)
	assert.True(t, calc.IsOvertime)
}

func TestCalculateDeficit(t *testing.T) {
	// 300 minutes worked against a 450 minute norm
	actions := []models.ActionLog{
		action(models.ActionStartDay, base),
		action(models.ActionEndDay, base.Add(300*time.Minute)),
	}

	c := fixedCalc(450, base.Add(300*time.Minute))
	calc := c.Calculate(actions, nil)

	assert.Zero(t, calc.OvertimeMinutes)
	assert.Equal(t, 150, calc.DeficitMinutes)
	assert.Equal(t, 150, calc.RemainingMinutes)
	assert.False(t, calc.IsOvertime)
}

func TestCalculateBreaksExcludedFromWork(t *testing.T) {
	actions := []models.ActionLog{
		action(models.ActionStartDay, base),
		action(models.ActionStop, base.Add(time.Hour)),
		action(models.ActionContinue, base.Add(90*time.Minute)),
		action(models.ActionEndDay, base.Add(150*time.Minute)),
	}
	breaks := []models.BreakPeriod{
		closedBreak(base.Add(time.Hour), base.Add(90*time.Minute)),
	}

	c := fixedCalc(450, base.Add(150*time.Minute))
	calc := c.Calculate(actions, breaks)

	assert.Equal(t, 120*60, calc.TotalWorkSeconds)
	assert.Equal(t, 30*60, calc.TotalBreakSeconds)
	// Productive equals work; breaks were never counted in
	assert.Equal(t, calc.TotalWorkSeconds, calc.ProductiveSeconds)
}

func TestCalculateIdempotent(t *testing.T) {
	actions := []models.ActionLog{
		action(models.ActionStartDay, base),
		action(models.ActionStop, base.Add(time.Hour)),
	}

	c := fixedCalc(450, base.Add(2*time.Hour))

	first := c.Calculate(actions, nil)
	second := c.Calculate(actions, nil)

	require.Equal(t, first, second)
}

func TestNewDefaultsNorm(t *testing.T) {
	assert.Equal(t, DefaultNormMinutes, New(0).NormMinutes)
	assert.Equal(t, DefaultNormMinutes, New(-10).NormMinutes)
	assert.Equal(t, 480, New(480).NormMinutes)
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatSeconds(0))
	assert.Equal(t, "00:00:00", FormatSeconds(-5))
	assert.Equal(t, "01:01:01", FormatSeconds(3661))
	assert.Equal(t, "10:00:30", FormatSeconds(36030))
}
