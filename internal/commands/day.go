package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/worklog/internal/models"
	"github.com/balkashynov/worklog/internal/timecalc"
	"github.com/balkashynov/worklog/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the work day",
	Long: `Start the work day. Opens the live dashboard by default, use --no-ui for a simple start.

Examples:
  worklog start         # Start the day with the dashboard
  worklog start --no-ui # Start the day without UI`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := initApp()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.close()

		if err := a.manager.StartDay(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		a.saveHistory()

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI {
			session := a.manager.Session()
			fmt.Printf("☀️  Work day started for %s\n", session.Date)
			if session.StartTime != nil {
				fmt.Printf("Started at: %s\n", session.StartTime.Format("15:04:05"))
			}
			return
		}

		if err := tui.RunDashboard(a.manager); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		a.saveHistory()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop [break-type]",
	Short: "Stop working and take a break",
	Long: `Stop working and open a break period. The break type is lunch, coffee
or general (default).

Examples:
  worklog stop          # general break
  worklog stop lunch    # lunch break`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := ""
		if len(args) == 1 {
			input = args[0]
		}
		breakType, err := models.ParseBreakType(input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		a, err := initApp()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.close()

		if err := a.manager.Stop(breakType); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		a.saveHistory()

		fmt.Printf("⏸️  Stopped for a %s break\n", breakType)
	},
}

var continueCmd = &cobra.Command{
	Use:   "continue",
	Short: "Continue working after a break",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := initApp()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.close()

		if err := a.manager.ContinueWork(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		a.saveHistory()

		calc, err := a.manager.CurrentCalculations()
		if err == nil {
			fmt.Printf("▶️  Back to work. Break time today: %s\n", timecalc.FormatSeconds(calc.TotalBreakSeconds))
		} else {
			fmt.Println("▶️  Back to work.")
		}
	},
}

var endCmd = &cobra.Command{
	Use:   "end",
	Short: "End the work day and persist totals",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := initApp()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.close()

		if err := a.manager.EndDay(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		a.saveHistory()

		calc, err := a.manager.CurrentCalculations()
		if err != nil {
			fmt.Println("🌙 Work day ended.")
			return
		}

		fmt.Println("🌙 Work day ended.")
		fmt.Printf("Worked:   %s\n", timecalc.FormatSeconds(calc.TotalWorkSeconds))
		fmt.Printf("Breaks:   %s\n", timecalc.FormatSeconds(calc.TotalBreakSeconds))
		if calc.IsOvertime {
			fmt.Printf("Overtime: %s\n", timecalc.FormatSeconds(calc.OvertimeSeconds))
		} else {
			fmt.Printf("Deficit:  %s\n", timecalc.FormatSeconds(calc.DeficitSeconds))
		}
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current day status",
	Long:  `Show a snapshot of today's state and durations. Use --watch for the live dashboard.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := initApp()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.close()

		watch, _ := cmd.Flags().GetBool("watch")
		if watch {
			if err := tui.RunDashboard(a.manager); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			a.saveHistory()
			return
		}

		calc, err := a.manager.CurrentCalculations()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		state := a.manager.CurrentState()
		fmt.Printf("State:     %s\n", state.Label())
		fmt.Printf("Worked:    %s\n", timecalc.FormatSeconds(calc.TotalWorkSeconds))
		fmt.Printf("Breaks:    %s\n", timecalc.FormatSeconds(calc.TotalBreakSeconds))
		if state == models.StateWorking {
			fmt.Printf("Session:   %s\n", timecalc.FormatSeconds(calc.CurrentSessionSeconds))
		}
		if calc.IsOvertime {
			fmt.Printf("Overtime:  %s\n", timecalc.FormatSeconds(calc.OvertimeSeconds))
		} else {
			fmt.Printf("Remaining: %s\n", timecalc.FormatSeconds(calc.RemainingSeconds))
		}
	},
}

func init() {
	startCmd.Flags().Bool("no-ui", false, "Start the day without the dashboard")
	statusCmd.Flags().Bool("watch", false, "Open the live dashboard")
}
