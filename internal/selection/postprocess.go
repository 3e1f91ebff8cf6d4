// Package selection turns raw strategy results into the unified,
// ranked selection table the reports are built from.
package selection

import (
	"sort"

	"github.com/fincast/asx-screener/internal/contracts"
	"github.com/fincast/asx-screener/internal/metrics"
	"github.com/fincast/asx-screener/internal/strategy"
	"github.com/fincast/asx-screener/pkg/logger"
)

// Processor assigns ranks and industry baselines to strategy output.
type Processor struct {
	logger *logger.Logger
}

// NewProcessor creates a new selection post-processor.
func NewProcessor(log *logger.Logger) *Processor {
	return &Processor{logger: log}
}

// Finalize converts one strategy result into ranked SelectionRows.
//
// Ranks are 1-based and contiguous within their scope: the whole table
// for overall mode, each industry group for per-industry mode.
// Industry averages are attached for per-industry selections only;
// overall rows always carry a nil IndustryAvg.
func (p *Processor) Finalize(name string, mode contracts.Mode, res strategy.Result, base []contracts.MetricRow) []contracts.SelectionRow {
	rows := make([]contracts.SelectionRow, 0, len(res.Selections))
	for _, sel := range res.Selections {
		rows = append(rows, contracts.SelectionRow{
			MetricRow:   sel.MetricRow,
			Strategy:    name,
			Mode:        mode,
			MetricName:  sel.MetricName,
			MetricValue: sel.MetricValue,
		})
	}

	rank(rows, mode, res.Ascending)

	if mode == contracts.ModePerIndustry {
		p.attachIndustryAvg(rows, base)
	}

	p.logger.WithFields(map[string]interface{}{
		"strategy": name,
		"mode":     mode,
		"selected": len(rows),
	}).Debug("Selection finalized")

	return rows
}

// Union concatenates all per-strategy, per-mode selections into one
// table. Row identity is (ticker, strategy, mode); the same ticker may
// appear once per strategy and mode it qualified for.
func (p *Processor) Union(batches ...[]contracts.SelectionRow) []contracts.SelectionRow {
	total := 0
	for _, b := range batches {
		total += len(b)
	}

	union := make([]contracts.SelectionRow, 0, total)
	for _, b := range batches {
		union = append(union, b...)
	}
	return union
}

// rank sorts rows by metric value in the strategy's direction (grouped
// by industry first in per-industry mode) and assigns dense ranks.
func rank(rows []contracts.SelectionRow, mode contracts.Mode, ascending bool) {
	less := func(a, b float64) bool {
		if ascending {
			return a < b
		}
		return a > b
	}

	if mode == contracts.ModePerIndustry {
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Industry != rows[j].Industry {
				return rows[i].Industry < rows[j].Industry
			}
			return less(rows[i].MetricValue, rows[j].MetricValue)
		})

		pos := 0
		for i := range rows {
			if i == 0 || rows[i].Industry != rows[i-1].Industry {
				pos = 0
			}
			pos++
			rows[i].Rank = pos
		}
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return less(rows[i].MetricValue, rows[j].MetricValue)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
}

// attachIndustryAvg annotates each row with the industry-level mean of
// the metric the strategy ranked on. The relative-P/E strategy is
// special: its baseline is the raw P/E mean the ratio was computed
// against, not a mean of ratios. When the selection is empty or the
// metric name does not resolve to a metrics column, the average stays
// nil for every row.
func (p *Processor) attachIndustryAvg(rows []contracts.SelectionRow, base []contracts.MetricRow) {
	if len(rows) == 0 {
		return
	}

	metricName := rows[0].MetricName
	if metricName == "pe_relative" {
		metricName = "pe"
	}

	means := metrics.IndustryMeans(base, metricName)
	if means == nil {
		p.logger.WithField("metric", rows[0].MetricName).Warn("No industry baseline available")
		return
	}

	for i := range rows {
		if avg, ok := means[rows[i].Industry]; ok {
			v := avg
			rows[i].IndustryAvg = &v
		}
	}
}
