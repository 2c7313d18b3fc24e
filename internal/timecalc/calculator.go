package timecalc

import (
	"fmt"
	"time"

	"github.com/balkashynov/worklog/internal/models"
)

// DefaultNormMinutes is the default daily work norm (7.5 hours)
const DefaultNormMinutes = 450

// Calculator derives time metrics from an ordered action log and break
// periods. It holds no session state; Now is injectable for tests.
type Calculator struct {
	NormMinutes int
	Now         func() time.Time
}

// New returns a Calculator with the given daily norm in minutes.
// Non-positive norms fall back to the default.
func New(normMinutes int) *Calculator {
	if normMinutes <= 0 {
		normMinutes = DefaultNormMinutes
	}
	return &Calculator{
		NormMinutes: normMinutes,
		Now:         time.Now,
	}
}

// WorkTime returns total worked seconds from the action log. Breaks are
// excluded implicitly: the open-start marker is cleared by stop/end_day
// and re-armed only by start_day/continue.
func (c *Calculator) WorkTime(actions []models.ActionLog) int {
	total := 0
	var openStart *time.Time

	for _, action := range actions {
		ts := action.Timestamp
		switch action.ActionType {
		case models.ActionStartDay, models.ActionContinue:
			openStart = &ts
		case models.ActionStop, models.ActionEndDay:
			if openStart != nil {
				if secs := int(ts.Sub(*openStart).Seconds()); secs > 0 {
					total += secs
				}
				openStart = nil
			}
			// A stop with no open marker is a no-op
		}
	}

	return total
}

// CurrentSession returns the elapsed seconds of the currently open work
// interval, or zero when the most recent relevant action closed one.
func (c *Calculator) CurrentSession(actions []models.ActionLog) int {
	for i := len(actions) - 1; i >= 0; i-- {
		switch actions[i].ActionType {
		case models.ActionStartDay, models.ActionContinue:
			elapsed := int(c.Now().Sub(actions[i].Timestamp).Seconds())
			if elapsed < 0 {
				return 0
			}
			return elapsed
		case models.ActionStop, models.ActionEndDay:
			return 0
		}
	}

	return 0
}

// BreakTime returns total break seconds. Closed periods are measured by
// their timestamps; periods carrying only a minute duration contribute
// that. Negative spans from clock skew are clamped to zero.
func (c *Calculator) BreakTime(breaks []models.BreakPeriod) int {
	total := 0

	for _, b := range breaks {
		switch {
		case b.EndTime != nil:
			if secs := int(b.EndTime.Sub(b.StartTime).Seconds()); secs > 0 {
				total += secs
			}
		case b.DurationMinutes != nil:
			if secs := *b.DurationMinutes * 60; secs > 0 {
				total += secs
			}
		}
	}

	return total
}

// Calculate produces the full metric snapshot for a session
func (c *Calculator) Calculate(actions []models.ActionLog, breaks []models.BreakPeriod) models.TimeCalculation {
	workSeconds := c.WorkTime(actions)
	breakSeconds := c.BreakTime(breaks)
	currentSeconds := c.CurrentSession(actions)

	// Productive time equals work time: breaks were never counted in
	productiveSeconds := workSeconds

	normSeconds := c.NormMinutes * 60

	var overtimeSeconds, deficitSeconds, remainingSeconds int
	if productiveSeconds > normSeconds {
		overtimeSeconds = productiveSeconds - normSeconds
	} else {
		deficitSeconds = normSeconds - productiveSeconds
		remainingSeconds = deficitSeconds
	}

	return models.TimeCalculation{
		TotalWorkSeconds:      workSeconds,
		TotalBreakSeconds:     breakSeconds,
		ProductiveSeconds:     productiveSeconds,
		OvertimeSeconds:       overtimeSeconds,
		DeficitSeconds:        deficitSeconds,
		RemainingSeconds:      remainingSeconds,
		CurrentSessionSeconds: currentSeconds,
		WorkNormSeconds:       normSeconds,
		TotalWorkMinutes:      workSeconds / 60,
		TotalBreakMinutes:     breakSeconds / 60,
		ProductiveMinutes:     productiveSeconds / 60,
		OvertimeMinutes:       overtimeSeconds / 60,
		DeficitMinutes:        deficitSeconds / 60,
		RemainingMinutes:      remainingSeconds / 60,
		CurrentSessionMinutes: currentSeconds / 60,
		WorkNormMinutes:       c.NormMinutes,
		IsOvertime:            overtimeSeconds > 0,
	}
}

// FormatSeconds renders a second count as HH:MM:SS
func FormatSeconds(totalSeconds int) string {
	if totalSeconds < 0 {
		return "00:00:00"
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
