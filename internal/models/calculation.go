package models

// TimeCalculation holds derived time metrics for a session.
// It is recomputed from the action log and break periods on demand
// and never stored as a source of truth.
type TimeCalculation struct {
	TotalWorkSeconds      int  `json:"total_work_seconds"`
	TotalBreakSeconds     int  `json:"total_break_seconds"`
	ProductiveSeconds     int  `json:"productive_seconds"`
	OvertimeSeconds       int  `json:"overtime_seconds"`
	DeficitSeconds        int  `json:"deficit_seconds"`
	RemainingSeconds      int  `json:"remaining_seconds"`
	CurrentSessionSeconds int  `json:"current_session_seconds"`
	WorkNormSeconds       int  `json:"work_norm_seconds"`
	TotalWorkMinutes      int  `json:"total_work_minutes"`
	TotalBreakMinutes     int  `json:"total_break_minutes"`
	ProductiveMinutes     int  `json:"productive_minutes"`
	OvertimeMinutes       int  `json:"overtime_minutes"`
	DeficitMinutes        int  `json:"deficit_minutes"`
	RemainingMinutes      int  `json:"remaining_minutes"`
	CurrentSessionMinutes int  `json:"current_session_minutes"`
	WorkNormMinutes       int  `json:"work_norm_minutes"`
	IsOvertime            bool `json:"is_overtime"`
}
