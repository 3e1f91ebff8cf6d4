package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/fincast/asx-screener/internal/contracts"
)

// Names lists the metric columns of a MetricRow, in report order.
func Names() []string {
	return []string{"pe", "market_cap", "eps", "price_to_book", "dividend_yield"}
}

// ValueByName resolves a metric column by name. Returns (nil, false)
// for a name that is not a MetricRow column (e.g. a derived metric
// such as pe_relative).
func ValueByName(row contracts.MetricRow, name string) (*float64, bool) {
	switch name {
	case "pe":
		return row.PE, true
	case "market_cap":
		return row.MarketCap, true
	case "eps":
		return row.EPS, true
	case "price_to_book":
		return row.PriceToBook, true
	case "dividend_yield":
		return row.DividendYield, true
	default:
		return nil, false
	}
}

// IndustryMeans computes the mean of one metric per industry, over
// rows where the metric is present. Industries with no usable value
// are omitted.
func IndustryMeans(rows []contracts.MetricRow, name string) map[string]float64 {
	grouped := make(map[string][]float64)
	for _, row := range rows {
		v, ok := ValueByName(row, name)
		if !ok {
			return nil
		}
		if v == nil {
			continue
		}
		grouped[row.Industry] = append(grouped[row.Industry], *v)
	}

	if len(grouped) == 0 {
		return nil
	}

	means := make(map[string]float64, len(grouped))
	for industry, values := range grouped {
		means[industry] = stat.Mean(values, nil)
	}
	return means
}
