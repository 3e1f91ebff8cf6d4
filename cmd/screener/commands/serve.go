package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fincast/asx-screener/internal/api"
	"github.com/fincast/asx-screener/internal/api/handlers"
)

// serveCmd exposes completed runs over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve completed runs over a read-only HTTP API",
	Long: `Starts the results API. The API is read-only: it lists run
directories and returns their CSV outputs as JSON.

Endpoints:
  GET /health
  GET /api/runs
  GET /api/runs/latest
  GET /api/runs/{id}/metadata
  GET /api/runs/{id}/tickers
  GET /api/runs/{id}/selections
  GET /api/runs/{id}/industry-pivot`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		runsHandler := handlers.NewRunsHandler(cfg.OutDir, log)
		router := api.NewRouter(runsHandler, log)
		server := api.New(cfg, log, router)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-quit:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
