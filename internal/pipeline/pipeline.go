// Package pipeline wires a full screening run: universe, quotes,
// metrics, strategies, post-processing and reports.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fincast/asx-screener/internal/contracts"
	"github.com/fincast/asx-screener/internal/metrics"
	"github.com/fincast/asx-screener/internal/report"
	"github.com/fincast/asx-screener/internal/selection"
	"github.com/fincast/asx-screener/internal/strategy"
	"github.com/fincast/asx-screener/internal/strategyconfig"
	"github.com/fincast/asx-screener/internal/universe"
	"github.com/fincast/asx-screener/pkg/config"
	"github.com/fincast/asx-screener/pkg/logger"
)

// QuoteSource resolves raw attributes for tickers. Satisfied by
// marketdata.Client; faked in tests.
type QuoteSource interface {
	GetAttributesBulk(ctx context.Context, tickers []string) (map[string]contracts.Attributes, error)
	SaveCache() error
}

// Pipeline executes one batch screening run end to end.
type Pipeline struct {
	cfg        *config.Config
	strategies *strategyconfig.Config
	quotes     QuoteSource
	loader     *universe.Loader
	processor  *selection.Processor
	logger     *logger.Logger
}

// New creates a pipeline.
func New(cfg *config.Config, strategies *strategyconfig.Config, quotes QuoteSource, log *logger.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		strategies: strategies,
		quotes:     quotes,
		loader:     universe.NewLoader(log),
		processor:  selection.NewProcessor(log),
		logger:     log,
	}
}

// Summary reports what a run produced.
type Summary struct {
	RunID         string
	RunDir        string
	TickersLoaded int
	SelectedRows  int
	OutputFiles   []string
}

// Run executes the pipeline once. Run metadata is written into the run
// directory whether the run succeeds or fails.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	if err := report.EnsureOutDir(p.cfg.OutDir); err != nil {
		return nil, fmt.Errorf("ensure output dir: %w", err)
	}

	runDir, runID, err := report.NewRunDir(p.cfg.OutDir)
	if err != nil {
		return nil, err
	}

	meta := report.NewRunMetadata(runID, p.cfg.OutDir, runDir)
	meta.Config = p.strategies
	if hash, hashErr := strategyconfig.Hash(p.strategies); hashErr == nil {
		meta.ConfigHash = hash
	}

	summary := &Summary{RunID: runID, RunDir: runDir}

	runErr := p.run(ctx, runDir, meta, summary)

	meta.Finish(runErr)
	if werr := report.WriteRunMetadata(runDir, meta); werr != nil {
		p.logger.WithError(werr).Error("Failed to write run metadata")
	}

	if runErr != nil {
		return summary, runErr
	}

	summary.OutputFiles = meta.OutputFiles
	p.logger.WithFields(map[string]interface{}{
		"run_id":        runID,
		"tickers":       summary.TickersLoaded,
		"selected_rows": summary.SelectedRows,
	}).Info("Run completed")

	return summary, nil
}

func (p *Pipeline) run(ctx context.Context, runDir string, meta *report.RunMetadata, summary *Summary) error {
	// 1) Load the listing file
	companies, err := p.loader.Load(p.cfg.ListingCSV, p.cfg.MaxTickers)
	if err != nil {
		return err
	}

	tickers := make([]string, 0, len(companies))
	for _, c := range companies {
		if c.Ticker != "" {
			tickers = append(tickers, c.Ticker)
		}
	}
	summary.TickersLoaded = len(tickers)
	meta.Counts.TickersLoaded = len(tickers)

	// 2) Resolve quote attributes (cached)
	attrs, err := p.quotes.GetAttributesBulk(ctx, tickers)
	if err != nil {
		return fmt.Errorf("resolve quotes: %w", err)
	}
	if err := p.quotes.SaveCache(); err != nil {
		p.logger.WithError(err).Warn("Failed to save quote cache")
	}

	// 3) Build the metrics table
	metricsRows := metrics.Build(companies, attrs)

	// 3.5) Industry pivot
	pivot := metrics.BuildIndustryPivot(metricsRows)
	pivotPath := filepath.Join(runDir, report.IndustryPivotFile)
	if err := report.WriteIndustryPivotCSV(pivotPath, pivot); err != nil {
		return err
	}
	meta.AddOutputFile(pivotPath)

	// 4) Run strategies: overall top N and per-industry top M
	var batches [][]contracts.SelectionRow
	for _, spec := range p.strategies.Strategies {
		fn, err := strategy.Lookup(spec.Name)
		if err != nil {
			// Configuration error: aborts the whole run.
			return err
		}

		if spec.TopOverall > 0 {
			rows, err := p.runOne(fn, spec.Name, contracts.ModeOverall, spec.TopOverall, metricsRows, runDir, meta)
			if err != nil {
				return err
			}
			batches = append(batches, rows)
		}

		if spec.TopPerIndustry > 0 {
			rows, err := p.runOne(fn, spec.Name, contracts.ModePerIndustry, spec.TopPerIndustry, metricsRows, runDir, meta)
			if err != nil {
				return err
			}
			batches = append(batches, rows)
		}
	}

	selected := p.processor.Union(batches...)
	summary.SelectedRows = len(selected)
	meta.Counts.SelectedRows = len(selected)

	// 5) Reports
	tickersPath := filepath.Join(runDir, report.TickersFile)
	if err := report.WriteTickersCSV(tickersPath, report.DistinctTickers(selected)); err != nil {
		return err
	}
	meta.AddOutputFile(tickersPath)

	longPath := filepath.Join(runDir, report.LongFile)
	if err := report.WriteSelectionsCSV(longPath, selected); err != nil {
		return err
	}
	meta.AddOutputFile(longPath)

	widePath := filepath.Join(runDir, report.WideFile)
	if err := report.WriteWideCSV(widePath, report.BuildWide(selected)); err != nil {
		return err
	}
	meta.AddOutputFile(widePath)

	return nil
}

// runOne applies a single strategy in a single mode, finalizes ranks
// and baselines, and writes the per-strategy-per-mode CSV.
func (p *Pipeline) runOne(fn strategy.Func, name string, mode contracts.Mode, n int,
	metricsRows []contracts.MetricRow, runDir string, meta *report.RunMetadata) ([]contracts.SelectionRow, error) {

	res := fn(metricsRows, mode, n)
	rows := p.processor.Finalize(name, mode, res, metricsRows)

	path := filepath.Join(runDir, report.StrategyModeFile(name, mode))
	if err := report.WriteSelectionsCSV(path, rows); err != nil {
		return nil, err
	}
	meta.AddOutputFile(path)

	return rows, nil
}
