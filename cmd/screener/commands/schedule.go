package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fincast/asx-screener/internal/marketdata"
	"github.com/fincast/asx-screener/internal/pipeline"
	"github.com/fincast/asx-screener/internal/scheduler"
	"github.com/fincast/asx-screener/internal/strategyconfig"
)

var scheduleCron string

// scheduleCmd re-runs the pipeline on a cron schedule.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the screening pipeline on a cron schedule",
	Long: `Keeps the process alive and re-runs the full pipeline on the
given cron expression (with seconds field).

Example:
  go run ./cmd/screener schedule --cron "0 0 18 * * 1-5"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		strategies, err := strategyconfig.LoadOrDefault(cfg.StrategyFile)
		if err != nil {
			return err
		}

		sched := scheduler.New(log)
		err = sched.AddJob(&scheduler.FuncJob{
			JobName:  "screening_run",
			CronExpr: scheduleCron,
			RunFunc: func(ctx context.Context) error {
				// Fresh quote client per run so the cache reloads.
				quotes := marketdata.New(cfg.Quote, log)
				p := pipeline.New(cfg, strategies, quotes, log)
				_, err := p.Run(ctx)
				return err
			},
		})
		if err != nil {
			return err
		}

		sched.Start()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		sched.Stop()
		return nil
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "0 0 18 * * 1-5", "cron expression (with seconds)")
	rootCmd.AddCommand(scheduleCmd)
}
