// ABOUTME: Root Cobra command and global setup for the hoshiko CLI.
// ABOUTME: Loads and validates config and configures structured logging before any command runs.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hoshiko-bot/hoshiko/internal/config"
)

var globalConfig *config.Config
var globalLogger *slog.Logger

var rootCmd = &cobra.Command{
	Use:   "hoshiko",
	Short: "Autonomous social posting agent",
	Long: `
hoshiko - an autonomous content-posting agent.

Generates short posts on a fixed cadence via a local LLM, filters them
against recent history, respects a monthly cap and nightly quiet hours,
and publishes to a social platform (or a simulation log).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "setup" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		globalConfig = cfg
		globalLogger = newLogger(cfg.LogLevel)
		slog.SetDefault(globalLogger)

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgent(cmd, args)
	},
}

// newLogger builds the process-wide structured logger.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
