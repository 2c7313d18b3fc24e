package models

import "fmt"

// WorklogState is the lifecycle state of a work session
type WorklogState string

const (
	StateNotStarted WorklogState = "not_started"
	StateWorking    WorklogState = "working"
	StateOnBreak    WorklogState = "on_break"
	StateDayEnded   WorklogState = "day_ended"
)

// ActionType is a user action recorded in the action log
type ActionType string

const (
	ActionStartDay ActionType = "start_day"
	ActionStop     ActionType = "stop"
	ActionContinue ActionType = "continue"
	ActionEndDay   ActionType = "end_day"
)

// BreakType classifies a break period
type BreakType string

const (
	BreakLunch   BreakType = "lunch"
	BreakCoffee  BreakType = "coffee"
	BreakGeneral BreakType = "general"
)

// ParseBreakType converts user input into a BreakType, defaulting to general
func ParseBreakType(s string) (BreakType, error) {
	switch s {
	case "", "general":
		return BreakGeneral, nil
	case "lunch":
		return BreakLunch, nil
	case "coffee":
		return BreakCoffee, nil
	default:
		return BreakGeneral, fmt.Errorf("unknown break type %q (expected lunch, coffee or general)", s)
	}
}

// ParseWorklogState converts a stored status string into a WorklogState
func ParseWorklogState(s string) (WorklogState, error) {
	switch WorklogState(s) {
	case StateNotStarted, StateWorking, StateOnBreak, StateDayEnded:
		return WorklogState(s), nil
	default:
		return StateNotStarted, fmt.Errorf("unknown worklog state %q", s)
	}
}

// Label returns a human-readable name for the state
func (s WorklogState) Label() string {
	switch s {
	case StateNotStarted:
		return "Not started"
	case StateWorking:
		return "Working"
	case StateOnBreak:
		return "On break"
	case StateDayEnded:
		return "Day ended"
	default:
		return string(s)
	}
}

// Label returns a human-readable name for the action
func (a ActionType) Label() string {
	switch a {
	case ActionStartDay:
		return "Started work day"
	case ActionStop:
		return "Stopped work"
	case ActionContinue:
		return "Continued work"
	case ActionEndDay:
		return "Ended work day"
	default:
		return string(a)
	}
}
