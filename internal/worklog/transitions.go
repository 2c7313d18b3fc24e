package worklog

import "github.com/balkashynov/worklog/internal/models"

// transitions maps each lifecycle state to the actions legal in it.
// DayEnded is terminal; only an explicit reset leaves it.
var transitions = map[models.WorklogState][]models.ActionType{
	models.StateNotStarted: {models.ActionStartDay},
	models.StateWorking:    {models.ActionStop, models.ActionEndDay},
	models.StateOnBreak:    {models.ActionContinue, models.ActionEndDay},
	models.StateDayEnded:   {},
}

// resultState maps an action to the state it produces
var resultState = map[models.ActionType]models.WorklogState{
	models.ActionStartDay: models.StateWorking,
	models.ActionStop:     models.StateOnBreak,
	models.ActionContinue: models.StateWorking,
	models.ActionEndDay:   models.StateDayEnded,
}

func allowed(state models.WorklogState, action models.ActionType) bool {
	for _, a := range transitions[state] {
		if a == action {
			return true
		}
	}
	return false
}
