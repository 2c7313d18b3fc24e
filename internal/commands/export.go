package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/worklog/internal/export"
	"github.com/balkashynov/worklog/internal/parser"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions, breaks and actions for a date range",
	Long: `Export a date-range report with per-day work, break and overtime
numbers.

Examples:
  worklog export                          # today, CSV
  worklog export --range week --format json
  worklog export --range 2026-08-01..2026-08-31 --out august.csv`,
	Run: func(cmd *cobra.Command, args []string) {
		rangeInput, _ := cmd.Flags().GetString("range")
		formatInput, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")

		from, to, err := parser.ParseDateRange(rangeInput, time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		format, err := export.ParseFormat(formatInput)
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

		exporter := export.New(a.store, a.cfg.ExportDir)
		path, err := exporter.Export(from, to, format, outPath)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("📊 Exported %s..%s to %s\n", from, to, path)
	},
}

func init() {
	exportCmd.Flags().String("range", "today", "Date range: today, yesterday, week, month, YYYY-MM-DD or YYYY-MM-DD..YYYY-MM-DD")
	exportCmd.Flags().String("format", "csv", "Output format: csv or json")
	exportCmd.Flags().String("out", "", "Output file path (default: export dir with a generated name)")
}
