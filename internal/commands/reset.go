package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe today's session and start over",
	Long: `Delete every record of today's session - actions, breaks and the
session itself - and create a fresh one. This cannot be undone.`,
	Run: func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirm("Reset today's session? All of today's records will be deleted.") {
			fmt.Println("Cancelled.")
			return
		}

		a, err := initApp()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.close()

		if err := a.manager.ResetDay(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		a.saveHistory()

		fmt.Println("🗑️  Day reset. Fresh session created for today.")
	},
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}
