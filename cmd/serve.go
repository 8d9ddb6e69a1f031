package cmd

import (
	"os/signal"
	"syscall"

	"marketplace-api/internal/app"
	"marketplace-api/internal/server"

	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application, err := app.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer application.Close()

		if err := server.NewServer(application).Start(ctx); err != nil {
			return err
		}
		log.Info("Application gracefully stopped.")
		return nil
	},
}
