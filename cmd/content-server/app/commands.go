// Package app provides the entry point for the content server command line.
package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/logger"
	"github.com/campusweb/content-server/internal/versions"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
	flagDev      = "dev"
)

// NewRootCmd creates the root command with every subcommand attached.
// Each call returns a fresh command tree.
func NewRootCmd() *cobra.Command {
	v := config.NewEnv()

	rootCmd := &cobra.Command{
		Use:               "content-server",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "School website content server",
		Long: `content-server serves the school's content collections (achievements, awards,
sports, alumni, faculty, feedback, enquiries and events) with searchable, filterable
public and admin HTTP APIs, refetching every collection from its source on a schedule.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return logger.Initialize(
				logger.WithLevel(v.GetString(flagLogLevel)),
				logger.WithDevelopment(v.GetBool(flagDev)),
			)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().String(flagLogLevel, "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool(flagDev, false, "Human readable console logs")
	for _, name := range []string{flagLogLevel, flagDev} {
		if err := v.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			logger.Fatalf("Failed to bind %s flag: %v", name, err)
		}
	}
	// CONTENT_SERVER_LOG_LEVEL
	if err := v.BindEnv(flagLogLevel, config.EnvPrefix+"_LOG_LEVEL"); err != nil {
		logger.Fatalf("Failed to bind log level environment variable: %v", err)
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versions.GetVersionInfo()
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}

			if format == "json" {
				output, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to format version info as JSON: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return err
		},
	}
	cmd.Flags().String("format", "", "Output format (json)")
	return cmd
}

// addConfigFlag registers the required --config flag on cmd
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String(flagConfig, "", "Path to configuration file (YAML format, required)")
	if err := cmd.MarkFlagRequired(flagConfig); err != nil {
		logger.Fatalf("Failed to mark config flag as required: %v", err)
	}
}

// loadConfig reads --config and applies CONTENT_SERVER_* environment overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.LoadConfig(
		config.WithConfigPath(path),
		config.WithEnvOverrides(config.NewEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
