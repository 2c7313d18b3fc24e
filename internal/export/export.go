package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/balkashynov/worklog/internal/db"
	"github.com/balkashynov/worklog/internal/models"
)

// Format selects the report output format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat converts user input into a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatCSV, fmt.Errorf("unknown export format %q (expected csv or json)", s)
	}
}

// DailyStats aggregates one day's numbers for reporting
type DailyStats struct {
	Date              string  `json:"date"`
	WorkMinutes       int     `json:"work_minutes"`
	BreakMinutes      int     `json:"break_minutes"`
	OvertimeMinutes   int     `json:"overtime_minutes"`
	BreaksTaken       int     `json:"breaks_taken"`
	ProductivityRatio float64 `json:"productivity_ratio"` // work / (work + break)
}

// Report is the collected read-only view of a date range
type Report struct {
	From        string               `json:"from"`
	To          string               `json:"to"`
	GeneratedAt time.Time            `json:"generated_at"`
	Sessions    []models.WorkSession `json:"sessions"`
	Breaks      []models.BreakPeriod `json:"breaks"`
	Actions     []models.ActionLog   `json:"actions"`
	Daily       []DailyStats         `json:"daily"`
}

// Exporter renders date-range reports from the store. It only reads.
type Exporter struct {
	store *db.Store
	dir   string
}

// New returns an Exporter writing files into dir
func New(store *db.Store, dir string) *Exporter {
	return &Exporter{store: store, dir: dir}
}

// Collect gathers sessions, breaks, actions and per-day stats for the
// inclusive date range [from, to], both YYYY-MM-DD
func (e *Exporter) Collect(from, to string) (*Report, error) {
	fromDay, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, fmt.Errorf("invalid from date %q: %w", from, err)
	}
	toDay, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, fmt.Errorf("invalid to date %q: %w", to, err)
	}
	if toDay.Before(fromDay) {
		return nil, fmt.Errorf("date range %s..%s is reversed", from, to)
	}

	sessions, err := e.store.SessionsInRange(from, to)
	if err != nil {
		return nil, err
	}

	rangeStart := fromDay
	rangeEnd := toDay.Add(24*time.Hour - time.Nanosecond)

	breaks, err := e.store.BreaksInRange(rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}
	actions, err := e.store.ActionsInRange(rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	return &Report{
		From:        from,
		To:          to,
		GeneratedAt: time.Now(),
		Sessions:    sessions,
		Breaks:      breaks,
		Actions:     actions,
		Daily:       dailyStats(sessions, breaks),
	}, nil
}

func dailyStats(sessions []models.WorkSession, breaks []models.BreakPeriod) []DailyStats {
	breaksBySession := map[uint]int{}
	for _, b := range breaks {
		breaksBySession[b.SessionID]++
	}

	stats := make([]DailyStats, 0, len(sessions))
	for _, s := range sessions {
		d := DailyStats{
			Date:            s.Date,
			WorkMinutes:     s.TotalWorkMinutes,
			BreakMinutes:    s.TotalBreakMinutes,
			OvertimeMinutes: s.OvertimeMinutes,
			BreaksTaken:     breaksBySession[s.ID],
		}
		if total := d.WorkMinutes + d.BreakMinutes; total > 0 {
			d.ProductivityRatio = float64(d.WorkMinutes) / float64(total)
		}
		stats = append(stats, d)
	}
	return stats
}

// Export collects the range and writes it in the requested format.
// When outPath is empty a timestamped file is created in the export dir.
// Returns the written file path.
func (e *Exporter) Export(from, to string, format Format, outPath string) (string, error) {
	report, err := e.Collect(from, to)
	if err != nil {
		return "", err
	}

	if outPath == "" {
		name := fmt.Sprintf("worklog_%s_%s.%s", from, to, format)
		outPath = filepath.Join(e.dir, name)
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	switch format {
	case FormatJSON:
		err = writeJSON(report, outPath)
	default:
		err = writeCSV(report, outPath)
	}
	if err != nil {
		return "", err
	}

	return outPath, nil
}

func writeJSON(report *Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func writeCSV(report *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"date", "start_time", "end_time", "work_minutes", "break_minutes", "overtime_minutes", "breaks_taken", "productivity"}); err != nil {
		return err
	}

	daily := map[string]DailyStats{}
	for _, d := range report.Daily {
		daily[d.Date] = d
	}

	for _, s := range report.Sessions {
		d := daily[s.Date]
		record := []string{
			s.Date,
			formatTimePtr(s.StartTime),
			formatTimePtr(s.EndTime),
			strconv.Itoa(d.WorkMinutes),
			strconv.Itoa(d.BreakMinutes),
			strconv.Itoa(d.OvertimeMinutes),
			strconv.Itoa(d.BreaksTaken),
			fmt.Sprintf("%.0f%%", d.ProductivityRatio*100),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04:05")
}
