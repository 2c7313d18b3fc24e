package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent actions and their undo eligibility",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := initApp()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.close()

		limit, _ := cmd.Flags().GetInt("limit")
		summaries := a.manager.HistorySummary(limit)

		if len(summaries) == 0 {
			fmt.Println("No actions recorded today.")
			return
		}

		fmt.Printf("%-10s %-10s %-35s %s\n", "ID", "TIME", "ACTION", "UNDO")
		fmt.Println(strings.Repeat("-", 65))

		for _, s := range summaries {
			undo := ""
			if s.CanRevoke {
				undo = "✓"
			}
			fmt.Printf("%-10s %-10s %-35s %s\n", shortID(s.ID), s.Timestamp, s.Description, undo)
		}
	},
}

var revokeCmd = &cobra.Command{
	Use:   "revoke [action-id]",
	Short: "Undo a recent action",
	Long: `Undo a recent action, reversing its side effects. Only the few most
recent actions are eligible; see 'worklog history'. The id may be the
short prefix shown there.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := initApp()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.close()

		actionID, err := resolveActionID(a, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if err := a.manager.RevokeAction(actionID); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		a.saveHistory()

		fmt.Printf("↩️  Action revoked. Current state: %s\n", a.manager.CurrentState().Label())
	},
}

// shortID returns the display prefix of an action id
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveActionID expands a (possibly shortened) id to the full one
func resolveActionID(a *app, input string) (string, error) {
	var matches []string
	for _, s := range a.manager.HistorySummary(0) {
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no action found with id %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id %q is ambiguous (%d matches); use more characters", input, len(matches))
	}
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "Maximum number of actions to show")
}
