package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/worklog/internal/models"
	"github.com/balkashynov/worklog/internal/worklog"
)

// RunDashboard starts the interactive day dashboard
func RunDashboard(manager *worklog.Manager) error {
	model := NewDashboardModel(manager)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := finalModel.(DashboardModel); ok && m.exiting {
		switch manager.CurrentState() {
		case models.StateWorking:
			fmt.Println("\n💡 Day is still running. Use 'worklog status' to check on it or 'worklog end' to finish.")
		case models.StateOnBreak:
			fmt.Println("\n💡 Still on break. Use 'worklog continue' to get back to work.")
		}
	}

	return nil
}
