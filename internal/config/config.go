package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/balkashynov/worklog/internal/db"
)

// Config holds the user-tunable worklog settings.
// Priority: ENV > YAML > defaults (via env-default tags).
type Config struct {
	DBPath          string `yaml:"db_path"           env:"WORKLOG_DB_PATH"`
	WorkNormMinutes int    `yaml:"work_norm_minutes" env:"WORKLOG_NORM_MINUTES"  env-default:"450"`
	MaxHistory      int    `yaml:"max_history"       env:"WORKLOG_MAX_HISTORY"   env-default:"100"`
	ExportDir       string `yaml:"export_dir"        env:"WORKLOG_EXPORT_DIR"`
	LogLevel        string `yaml:"log_level"         env:"WORKLOG_LOG_LEVEL"     env-default:"warn"`
}

// Load reads configuration from ~/.worklog/config.yml (or the file named
// by WORKLOG_CONFIG) and the environment. A missing default file is fine;
// a missing explicit one is an error.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("WORKLOG_CONFIG")
	explicitPath := path != ""
	if !explicitPath {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".worklog", "config.yml")
		}
	}

	if _, err := os.Stat(path); path != "" && err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	if c.DBPath == "" {
		if path, err := db.DefaultPath(); err == nil {
			c.DBPath = path
		} else {
			c.DBPath = filepath.Join(home, ".worklog", "worklog.db")
		}
	}
	if c.ExportDir == "" {
		c.ExportDir = filepath.Join(home, ".worklog", "exports")
	}
}

// Validate checks range rules on the loaded configuration
func (c *Config) Validate() error {
	if c.WorkNormMinutes <= 0 || c.WorkNormMinutes > 24*60 {
		return fmt.Errorf("work_norm_minutes must be between 1 and 1440 (got %d)", c.WorkNormMinutes)
	}
	if c.MaxHistory <= 0 {
		return fmt.Errorf("max_history must be > 0 (got %d)", c.MaxHistory)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error (got %q)", c.LogLevel)
	}
	return nil
}
