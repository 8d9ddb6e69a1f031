// Package cmd holds the command-line entry points: the API server, migrations and payment administration.
package cmd

import (
	"marketplace-api/config"
	"marketplace-api/internal/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "marketplace-api",
	Short:         "Freelance marketplace API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, paymentCmd)
	// Without a subcommand the binary serves the API.
	rootCmd.RunE = serveCmd.RunE
}

// Execute runs the command selected on the command line.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the configuration and applies its logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}
