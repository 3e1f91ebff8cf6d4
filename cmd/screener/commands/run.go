package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fincast/asx-screener/internal/marketdata"
	"github.com/fincast/asx-screener/internal/pipeline"
	"github.com/fincast/asx-screener/internal/strategyconfig"
)

var (
	runListingCSV   string
	runStrategyFile string
	runOutDir       string
	runMaxTickers   int
)

// runCmd executes the screening pipeline once.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the screening pipeline once",
	Long: `Runs a full screening pass: loads the listing file, resolves
quote attributes (cached), builds the metrics table, applies every
configured strategy in overall and per-industry mode, and writes the
run's CSV reports into a timestamped run directory.

Example:
  go run ./cmd/screener run
  go run ./cmd/screener run --max-tickers 50 --out outputs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		// Flag overrides
		if runListingCSV != "" {
			cfg.ListingCSV = runListingCSV
		}
		if runStrategyFile != "" {
			cfg.StrategyFile = runStrategyFile
		}
		if runOutDir != "" {
			cfg.OutDir = runOutDir
		}
		if runMaxTickers > 0 {
			cfg.MaxTickers = runMaxTickers
		}

		strategies, err := strategyconfig.LoadOrDefault(cfg.StrategyFile)
		if err != nil {
			return err
		}

		quotes := marketdata.New(cfg.Quote, log)
		p := pipeline.New(cfg, strategies, quotes, log)

		summary, err := p.Run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println("\nDone.")
		fmt.Printf("- Run folder:    %s\n", summary.RunDir)
		fmt.Printf("- Tickers:       %d loaded\n", summary.TickersLoaded)
		fmt.Printf("- Selections:    %d rows\n", summary.SelectedRows)
		for _, f := range summary.OutputFiles {
			fmt.Printf("- Wrote:         %s\n", f)
		}

		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runListingCSV, "listing", "", "listing CSV path (default from env)")
	runCmd.Flags().StringVar(&runStrategyFile, "strategies", "", "strategy-set YAML path (default from env)")
	runCmd.Flags().StringVar(&runOutDir, "out", "", "base outputs directory (default from env)")
	runCmd.Flags().IntVar(&runMaxTickers, "max-tickers", 0, "cap the universe for quick runs")

	rootCmd.AddCommand(runCmd)
}
