package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fincast/asx-screener/internal/report"
)

// runsCmd lists completed run directories.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List completed runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		runs, err := report.ListRuns(cfg.OutDir)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs found.")
			return nil
		}

		for _, id := range runs {
			meta, err := report.ReadRunMetadata(filepath.Join(cfg.OutDir, "runs", id))
			if err != nil {
				fmt.Printf("%-28s  (no metadata)\n", id)
				continue
			}
			fmt.Printf("%-28s  %-8s  tickers=%-5d  selected=%-5d  %.1fs\n",
				id, meta.Status, meta.Counts.TickersLoaded, meta.Counts.SelectedRows, meta.Duration)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
}
