package strategy

import (
	"math"

	"github.com/fincast/asx-screener/internal/contracts"
	"github.com/fincast/asx-screener/internal/metrics"
)

// LowPEAbsolute selects the cheapest stocks by raw P/E. Lower is
// better; rows without a usable P/E never qualify.
func LowPEAbsolute(rows []contracts.MetricRow, mode contracts.Mode, n int) Result {
	base := scoreBy(rows, func(r contracts.MetricRow) *float64 { return r.PE })
	sel := selectTop(base, mode, n, true)
	return Result{Selections: tag(sel, "pe"), Ascending: true}
}

// HighMarketCap selects the largest companies by market capitalization.
func HighMarketCap(rows []contracts.MetricRow, mode contracts.Mode, n int) Result {
	base := scoreBy(rows, func(r contracts.MetricRow) *float64 { return r.MarketCap })
	sel := selectTop(base, mode, n, false)
	return Result{Selections: tag(sel, "market_cap"), Ascending: false}
}

// HighEPS selects the strongest earners by earnings per share.
func HighEPS(rows []contracts.MetricRow, mode contracts.Mode, n int) Result {
	base := scoreBy(rows, func(r contracts.MetricRow) *float64 { return r.EPS })
	sel := selectTop(base, mode, n, false)
	return Result{Selections: tag(sel, "eps"), Ascending: false}
}

// HighDividendYield selects the highest payers. Non-positive yields
// are dropped before selection; a zero yield is no yield.
func HighDividendYield(rows []contracts.MetricRow, mode contracts.Mode, n int) Result {
	base := scoreBy(rows, func(r contracts.MetricRow) *float64 {
		if r.DividendYield == nil || *r.DividendYield <= 0 {
			return nil
		}
		return r.DividendYield
	})
	sel := selectTop(base, mode, n, false)
	return Result{Selections: tag(sel, "dividend_yield"), Ascending: false}
}

// LowPERelativeIndustry selects stocks that are cheap relative to
// their own industry: pe_relative = pe / mean(pe of industry). The
// baseline mean is computed over rows with a usable P/E; non-finite
// ratios are dropped.
func LowPERelativeIndustry(rows []contracts.MetricRow, mode contracts.Mode, n int) Result {
	baseline := metrics.IndustryMeans(rows, "pe")

	base := make([]scored, 0, len(rows))
	for _, r := range rows {
		if r.PE == nil {
			continue
		}
		avg, ok := baseline[r.Industry]
		if !ok {
			continue
		}
		ratio := *r.PE / avg
		if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
			continue
		}
		base = append(base, scored{row: r, value: ratio})
	}

	sel := selectTop(base, mode, n, true)
	return Result{
		Selections:       tag(sel, "pe_relative"),
		Ascending:        true,
		IndustryBaseline: baseline,
	}
}

// scoreBy builds the base table for a strategy: one scored row per
// input row whose required metric is present.
func scoreBy(rows []contracts.MetricRow, metric func(contracts.MetricRow) *float64) []scored {
	base := make([]scored, 0, len(rows))
	for _, r := range rows {
		if v := metric(r); v != nil {
			base = append(base, scored{row: r, value: *v})
		}
	}
	return base
}
