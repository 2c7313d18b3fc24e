package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/worklog/internal/models"
)

const (
	// DefaultMaxHistory bounds the undo ledger size
	DefaultMaxHistory = 100

	// RevokeWindow is how many of the most recent non-revoked actions
	// are eligible for undo. Index-based on purpose: undoing deep in
	// history would reconstruct state the later actions already built on.
	RevokeWindow = 5
)

// SessionData is a shallow copy of the session fields needed to restore
// state around an action
type SessionData struct {
	SessionID uint                `json:"session_id"`
	StartTime *time.Time          `json:"start_time"`
	EndTime   *time.Time          `json:"end_time"`
	Status    models.WorklogState `json:"status"`
}

// BreakData captures the break period touched by an action, if any
type BreakData struct {
	BreakID         uint             `json:"break_id"`
	BreakType       models.BreakType `json:"break_type"`
	StartTime       time.Time        `json:"start_time"`
	EndTime         *time.Time       `json:"end_time"`
	DurationMinutes int              `json:"duration_minutes"`
}

// Snapshot is one undo-ledger entry. Everything except the revoke
// fields and notes is immutable once recorded.
type Snapshot struct {
	ID              string              `json:"id"`
	ActionType      models.ActionType   `json:"action_type"`
	Timestamp       time.Time           `json:"timestamp"`
	StateBefore     models.WorklogState `json:"state_before"`
	StateAfter      models.WorklogState `json:"state_after"`
	SessionBefore   SessionData         `json:"session_before"`
	SessionAfter    SessionData         `json:"session_after"`
	Break           *BreakData          `json:"break,omitempty"`
	Revoked         bool                `json:"revoked"`
	RevokeTimestamp *time.Time          `json:"revoke_timestamp,omitempty"`
	Notes           string              `json:"notes,omitempty"`
}

// Summary is a display row for recent history
type Summary struct {
	ID          string `json:"id"`
	ActionType  string `json:"action_type"`
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
	CanRevoke   bool   `json:"can_revoke"`
	Revoked     bool   `json:"revoked"`
}

// History is a capacity-bounded FIFO of snapshots with a shallow revoke
// window. It is not safe for concurrent use; the manager serializes access.
type History struct {
	max     int
	actions []Snapshot
	logger  *slog.Logger
	now     func() time.Time
}

// New returns a History bounded at max entries (DefaultMaxHistory when
// max is non-positive)
func New(max int, logger *slog.Logger) *History {
	if max <= 0 {
		max = DefaultMaxHistory
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &History{
		max:    max,
		logger: logger,
		now:    time.Now,
	}
}

// Record appends a snapshot and returns its id, evicting the oldest
// entry once the bound is exceeded
func (h *History) Record(snap Snapshot) string {
	snap.ID = uuid.NewString()
	if snap.Timestamp.IsZero() {
		snap.Timestamp = h.now()
	}

	h.actions = append(h.actions, snap)

	if len(h.actions) > h.max {
		removed := h.actions[0]
		h.actions = h.actions[1:]
		h.logger.Debug("evicted oldest action from history", "id", removed.ID)
	}

	h.logger.Info("recorded action", "action", snap.ActionType, "id", snap.ID)
	return snap.ID
}

// RevokableActions returns all non-revoked snapshots, most recent first
func (h *History) RevokableActions() []Snapshot {
	var out []Snapshot
	for i := len(h.actions) - 1; i >= 0; i-- {
		if !h.actions[i].Revoked {
			out = append(out, h.actions[i])
		}
	}
	return out
}

// LastAction returns the most recent non-revoked snapshot, or nil
func (h *History) LastAction() *Snapshot {
	revokable := h.RevokableActions()
	if len(revokable) == 0 {
		return nil
	}
	return &revokable[0]
}

// ByID returns the snapshot with the given id, or nil when not found
func (h *History) ByID(id string) *Snapshot {
	for i := range h.actions {
		if h.actions[i].ID == id {
			return &h.actions[i]
		}
	}
	return nil
}

// CanRevoke reports whether the action exists, is not yet revoked, and
// sits within the revoke window of most recent non-revoked actions
func (h *History) CanRevoke(id string) bool {
	action := h.ByID(id)
	if action == nil || action.Revoked {
		return false
	}

	for i, candidate := range h.RevokableActions() {
		if candidate.ID == id {
			return i < RevokeWindow
		}
	}

	return false
}

// Revoke marks a snapshot revoked. It only flips the ledger entry; the
// caller is responsible for reversing the underlying data.
func (h *History) Revoke(id, notes string) error {
	action := h.ByID(id)
	if action == nil {
		return fmt.Errorf("action %s not found", id)
	}
	if action.Revoked {
		return fmt.Errorf("action %s already revoked", id)
	}

	now := h.now()
	action.Revoked = true
	action.RevokeTimestamp = &now
	if notes != "" {
		action.Notes = strings.TrimSpace(action.Notes + "\nRevoked: " + notes)
	}

	h.logger.Info("revoked action", "action", action.ActionType, "id", id)
	return nil
}

// ActionsAfter returns non-revoked snapshots with a later timestamp
// than the referenced action
func (h *History) ActionsAfter(id string) []Snapshot {
	reference := h.ByID(id)
	if reference == nil {
		return nil
	}

	var out []Snapshot
	for _, action := range h.actions {
		if !action.Revoked && action.Timestamp.After(reference.Timestamp) {
			out = append(out, action)
		}
	}
	return out
}

// HistorySummary returns display rows for the most recent actions,
// newest first, revoked entries included and marked
func (h *History) HistorySummary(limit int) []Summary {
	recent := make([]Snapshot, 0, len(h.actions))
	for i := len(h.actions) - 1; i >= 0; i-- {
		recent = append(recent, h.actions[i])
	}
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}

	summaries := make([]Summary, 0, len(recent))
	for _, action := range recent {
		summaries = append(summaries, Summary{
			ID:          action.ID,
			ActionType:  string(action.ActionType),
			Timestamp:   action.Timestamp.Format("15:04:05"),
			Description: describe(action),
			CanRevoke:   h.CanRevoke(action.ID),
			Revoked:     action.Revoked,
		})
	}

	return summaries
}

func describe(action Snapshot) string {
	desc := action.ActionType.Label()
	if action.ActionType == models.ActionStop && action.Break != nil {
		desc = fmt.Sprintf("Stopped work (%s break)", action.Break.BreakType)
	}
	if action.Revoked {
		desc += " (REVOKED)"
	}
	return desc
}

// Len returns the number of ledger entries including revoked ones
func (h *History) Len() int {
	return len(h.actions)
}

// Clear drops every ledger entry. Used by the day reset.
func (h *History) Clear() {
	count := len(h.actions)
	h.actions = nil
	h.logger.Info("cleared action history", "removed", count)
}

// Export serializes the full ledger to JSON
func (h *History) Export() ([]byte, error) {
	return json.MarshalIndent(h.actions, "", "  ")
}

// Import replaces the ledger with previously exported data
func (h *History) Import(data []byte) error {
	var actions []Snapshot
	if err := json.Unmarshal(data, &actions); err != nil {
		return fmt.Errorf("failed to import history: %w", err)
	}

	h.actions = actions
	h.logger.Info("imported action history", "count", len(actions))
	return nil
}
