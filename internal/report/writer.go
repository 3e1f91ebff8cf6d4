package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fincast/asx-screener/internal/contracts"
	"github.com/fincast/asx-screener/internal/metrics"
)

// Standard output file names within a run directory.
const (
	TickersFile       = "tickers.csv"
	LongFile          = "tickers_with_strategy_long.csv"
	WideFile          = "tickers_with_strategy.csv"
	IndustryPivotFile = "industry_average_pe.csv"
	MetadataFile      = "run_metadata.json"
)

// EnsureOutDir creates the base outputs directory if needed. It stays
// stable across runs (caches live here).
func EnsureOutDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// NewRunDir creates <root>/runs/<timestamp>_<8-hex-id>/ and returns
// the directory path and run id.
func NewRunDir(root string) (string, string, error) {
	runsRoot := filepath.Join(root, "runs")
	if err := os.MkdirAll(runsRoot, 0o755); err != nil {
		return "", "", fmt.Errorf("create runs root: %w", err)
	}

	ts := time.Now().Format("20060102_150405")
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	runID := ts + "_" + suffix

	runDir := filepath.Join(runsRoot, runID)
	if err := os.Mkdir(runDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create run dir: %w", err)
	}
	return runDir, runID, nil
}

// StrategyModeFile returns the per-strategy-per-mode CSV file name,
// e.g. "low_pe_absolute_per_industry.csv".
func StrategyModeFile(strategy string, mode contracts.Mode) string {
	return strategy + "_" + string(mode) + ".csv"
}

// WriteTickersCSV writes the deduplicated ticker list.
func WriteTickersCSV(path string, tickers []string) error {
	records := [][]string{{"ticker"}}
	for _, t := range tickers {
		records = append(records, []string{t})
	}
	return writeCSV(path, records)
}

// WriteSelectionsCSV writes selection rows in long format, one row per
// SelectionRow.
func WriteSelectionsCSV(path string, selected []contracts.SelectionRow) error {
	records := [][]string{{
		"ticker", "industry", "strategy", "mode", "rank",
		"metric_name", "metric_value", "industry_avg",
		"company_name", "asx_code",
	}}

	for _, row := range selected {
		records = append(records, []string{
			row.Ticker,
			row.Industry,
			row.Strategy,
			string(row.Mode),
			strconv.Itoa(row.Rank),
			row.MetricName,
			formatFloat(row.MetricValue),
			formatOptional(row.IndustryAvg),
			row.CompanyName,
			row.ASXCode,
		})
	}
	return writeCSV(path, records)
}

// WriteWideCSV writes the deduplicated per-ticker report: all rank
// columns first, then all value columns, then the selected_in summary.
func WriteWideCSV(path string, wide Wide) error {
	header := []string{"ticker", "industry"}
	for _, k := range wide.Keys {
		header = append(header, k.Label()+"_rank")
	}
	for _, k := range wide.Keys {
		header = append(header, k.Label()+"_value")
	}
	header = append(header, "selected_in")

	records := [][]string{header}
	for _, row := range wide.Rows {
		record := []string{row.Ticker, row.Industry}
		for _, k := range wide.Keys {
			if cell, ok := row.Cells[k]; ok {
				record = append(record, strconv.Itoa(cell.Rank))
			} else {
				record = append(record, "")
			}
		}
		for _, k := range wide.Keys {
			if cell, ok := row.Cells[k]; ok {
				record = append(record, formatFloat(cell.Value))
			} else {
				record = append(record, "")
			}
		}
		record = append(record, row.SelectedIn)
		records = append(records, record)
	}
	return writeCSV(path, records)
}

// WriteIndustryPivotCSV writes the industry pivot table: one row per
// industry, avg/median/count columns per metric.
func WriteIndustryPivotCSV(path string, pivot []metrics.PivotRow) error {
	header := []string{"industry"}
	for _, name := range metrics.Names() {
		header = append(header, "avg_"+name, "median_"+name, "n_"+name)
	}

	records := [][]string{header}
	for _, row := range pivot {
		record := []string{row.Industry}
		for _, name := range metrics.Names() {
			s := row.Summaries[name]
			record = append(record,
				formatOptional(s.Avg),
				formatOptional(s.Median),
				strconv.Itoa(s.N),
			)
		}
		records = append(records, record)
	}
	return writeCSV(path, records)
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
