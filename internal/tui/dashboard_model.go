package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/worklog/internal/models"
	"github.com/balkashynov/worklog/internal/timecalc"
	"github.com/balkashynov/worklog/internal/worklog"
)

// DashboardModel is the live day view: state, ticking clock of the
// current work interval and the day's running totals
type DashboardModel struct {
	width  int
	height int

	manager *worklog.Manager
	state   models.WorklogState
	calc    models.TimeCalculation

	breakSpinner spinner.Model

	// UI state
	exiting bool
	err     error
}

// refreshTickMsg is sent every second to refresh the metrics
type refreshTickMsg struct{}

// NewDashboardModel creates the dashboard TUI model
func NewDashboardModel(manager *worklog.Manager) DashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))

	m := DashboardModel{
		manager:      manager,
		breakSpinner: sp,
	}
	m.refresh()
	return m
}

func (m *DashboardModel) refresh() {
	m.state = m.manager.CurrentState()
	calc, err := m.manager.CurrentCalculations()
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.calc = calc
}

// Init starts the refresh and spinner tickers
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(time.Second, func(t time.Time) tea.Msg {
			return refreshTickMsg{}
		}),
		m.breakSpinner.Tick,
	)
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshTickMsg:
		m.refresh()
		if !m.exiting {
			return m, tea.Tick(time.Second, func(t time.Time) tea.Msg {
				return refreshTickMsg{}
			})
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.breakSpinner, cmd = m.breakSpinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "b", "B":
			if m.manager.CanPerform(models.ActionStop) {
				m.err = m.manager.Stop(models.BreakGeneral)
				m.refresh()
			}
			return m, nil
		case "c", "C":
			if m.manager.CanPerform(models.ActionContinue) {
				m.err = m.manager.ContinueWork()
				m.refresh()
			}
			return m, nil
		case "e", "E":
			if m.manager.CanPerform(models.ActionEndDay) {
				m.err = m.manager.EndDay()
				m.refresh()
			}
			return m, nil
		case "ctrl+c", "esc", "q":
			m.exiting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	var components []string

	components = append(components, m.renderStateLine())
	components = append(components, m.renderBigClock())
	components = append(components, m.renderStats())

	if m.err != nil {
		errStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Align(lipgloss.Center).
			Width(m.width)
		components = append(components, errStyle.Render(m.err.Error()))
	}

	content := strings.Join(components, "\n\n")

	panelStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		Align(lipgloss.Center, lipgloss.Center)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		panelStyle.Render(content),
		helpBar,
	)
}

// renderStateLine shows the lifecycle state, with a spinner while on break
func (m DashboardModel) renderStateLine() string {
	var text string
	var color string

	switch m.state {
	case models.StateWorking:
		text = "⏱  WORKING"
		color = ColorSuccess
	case models.StateOnBreak:
		text = fmt.Sprintf("%s ON BREAK", m.breakSpinner.View())
		color = ColorWarning
	case models.StateDayEnded:
		text = "✔  DAY ENDED"
		color = ColorAccentBright
	default:
		text = "○  NOT STARTED"
		color = ColorDisabledText
	}

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Bold(true).
		Align(lipgloss.Center).
		Width(m.width).
		Render(text)
}

// renderStats shows the day's totals against the norm
func (m DashboardModel) renderStats() string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true)

	lines := []string{
		fmt.Sprintf("%s %s", labelStyle.Render("Worked:"), valueStyle.Render(timecalc.FormatSeconds(m.calc.TotalWorkSeconds))),
		fmt.Sprintf("%s %s", labelStyle.Render("Breaks:"), valueStyle.Render(timecalc.FormatSeconds(m.calc.TotalBreakSeconds))),
	}

	if m.calc.IsOvertime {
		overtimeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Bold(true)
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render("Overtime:"), overtimeStyle.Render(timecalc.FormatSeconds(m.calc.OvertimeSeconds))))
	} else {
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render("Remaining:"), valueStyle.Render(timecalc.FormatSeconds(m.calc.RemainingSeconds))))
	}

	var b strings.Builder
	for i, line := range lines {
		centered := lipgloss.NewStyle().
			Align(lipgloss.Center).
			Width(m.width).
			Render(line)
		b.WriteString(centered)
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderHelpBar renders the help bar at the bottom
func (m DashboardModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	helpText := "b break · c continue · e end day · esc/q exit (keep running)"

	return helpStyle.Render(helpText)
}
