package commands

import (
	"github.com/spf13/cobra"

	"github.com/fincast/asx-screener/pkg/config"
	"github.com/fincast/asx-screener/pkg/logger"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "ASX stock screener - ranks listed companies by financial metrics",
	Long: `ASX stock screener

Ranks publicly-listed companies by P/E, market cap, EPS, dividend
yield and industry-relative P/E, and writes ranked selections - both
overall and per industry - plus per-ticker summary tables as CSV.

Examples:
  go run ./cmd/screener run
  go run ./cmd/screener run --max-tickers 50
  go run ./cmd/screener runs
  go run ./cmd/screener serve
  go run ./cmd/screener schedule --cron "0 0 18 * * 1-5"`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the application config and builds a logger from it,
// honoring the global --verbose flag.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, logger.New(cfg), nil
}
