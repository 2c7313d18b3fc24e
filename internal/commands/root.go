package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/balkashynov/worklog/internal/config"
	"github.com/balkashynov/worklog/internal/db"
	"github.com/balkashynov/worklog/internal/worklog"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "worklog",
	Short: "A CLI work day tracker",
	Long: `worklog tracks your work day: start the day, take typed breaks,
continue, end - and see work, break and overtime durations against your
daily norm. Every step is recorded and the most recent ones can be undone.`,
}

// app bundles the initialized collaborators a command works with
type app struct {
	cfg     *config.Config
	store   *db.Store
	manager *worklog.Manager
}

// initApp loads config, opens the store and builds the manager for
// today's session. Panics are avoided; commands print the error.
func initApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	manager, err := worklog.New(store, worklog.Config{
		NormMinutes: cfg.WorkNormMinutes,
		MaxHistory:  cfg.MaxHistory,
		Logger:      newLogger(cfg),
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	a := &app{cfg: cfg, store: store, manager: manager}
	a.loadHistory()
	return a, nil
}

func (a *app) close() {
	a.manager.Close()
	a.store.Close()
}

// newLogger returns a structured JSON logger writing next to the database
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	logPath := filepath.Join(filepath.Dir(cfg.DBPath), "worklog.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
}

func (a *app) historyPath() string {
	return filepath.Join(filepath.Dir(a.cfg.DBPath), "history.json")
}

// loadHistory restores the undo ledger saved by the previous invocation
func (a *app) loadHistory() {
	data, err := os.ReadFile(a.historyPath())
	if err != nil {
		return // First run or cleared history
	}
	if err := a.manager.History().Import(data); err != nil {
		fmt.Printf("Warning: could not load action history: %v\n", err)
		return
	}

	// A ledger saved against an earlier session (yesterday, or before a
	// reset) must not drive undo on today's records
	last := a.manager.History().LastAction()
	session := a.manager.Session()
	if last != nil && session != nil && last.SessionAfter.SessionID != session.ID {
		a.manager.History().Clear()
	}
}

// saveHistory persists the undo ledger for the next invocation
func (a *app) saveHistory() {
	data, err := a.manager.History().Export()
	if err != nil {
		fmt.Printf("Warning: could not save action history: %v\n", err)
		return
	}
	if err := os.WriteFile(a.historyPath(), data, 0644); err != nil {
		fmt.Printf("Warning: could not save action history: %v\n", err)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("worklog %s (commit %s, built %s)\n", version, commit, date)
	},
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(continueCmd)
	rootCmd.AddCommand(endCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(revokeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}
