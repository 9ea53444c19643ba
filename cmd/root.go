package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/go-ulti-metrics/internal/config"
	"github.com/pable/go-ulti-metrics/internal/logger"
)

var (
	dbPath     string
	dbDriver   string
	configPath string
	logLevel   string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ultimetrics",
	Short: "Ultimate frisbee gender-representation metrics",
	Long: `Import ultianalytics play-by-play exports and team rosters, then measure how
touches, scoring and possessions split between the women and men on the field.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cError.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".ultimetrics", "metrics.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "SQLite path or Postgres DSN")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "sqlite", "database driver: sqlite or postgres")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (falls back to $"+config.EnvConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(pointsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(dropCmd)
}

// setup loads configuration and lets explicitly set flags override it.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("db") || loaded.DBDSN == config.New().DBDSN {
		loaded.DBDSN = dbPath
	}
	if flags.Changed("db-driver") {
		loaded.DBDriver = dbDriver
	}
	if flags.Changed("log-level") {
		loaded.LogLevel = logLevel
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	l, err := logger.New(loaded.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	cfg, log = loaded, l
	return nil
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
