package cmd

import (
	"fmt"

	"marketplace-api/internal/database"

	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DB.Driver != "postgres" {
			return fmt.Errorf("migrations need the postgres driver, configured %q", cfg.DB.Driver)
		}
		if err := database.MigrateUp(cfg.DB); err != nil {
			return err
		}
		log.Info("Migrations applied")
		return nil
	},
}

var migrateDownSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateDownSteps <= 0 {
			return fmt.Errorf("--steps must be positive")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := database.MigrateDown(cfg.DB, migrateDownSteps); err != nil {
			return err
		}
		log.Infof("Rolled back %d migration(s)", migrateDownSteps)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateDownSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}
