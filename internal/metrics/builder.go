// Package metrics turns raw per-ticker attributes into the cleaned
// numeric table every strategy ranks over.
package metrics

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/fincast/asx-screener/internal/contracts"
)

// Attribute keys delivered by the market-data source, in preference
// order where several can carry the same metric.
var (
	peKeys       = []string{"trailingPE", "forwardPE"}
	epsKeys      = []string{"trailingEps", "forwardEps"}
	capKeys      = []string{"marketCap"}
	pbKeys       = []string{"priceToBook"}
	divYieldKeys = []string{"dividendYield"}
)

// Build joins company metadata with per-ticker attributes into one
// MetricRow per company. A missing or unparsable attribute degrades to
// absent for that field only; it never fails the row.
func Build(companies []contracts.Company, attrs map[string]contracts.Attributes) []contracts.MetricRow {
	rows := make([]contracts.MetricRow, 0, len(companies))

	for _, c := range companies {
		info := attrs[c.Ticker]

		industry := c.Industry
		if industry == "" {
			industry = "Unknown"
		}

		pe := toFloat(firstPresent(info, peKeys...))
		// P/E <= 0 is not meaningful for a cheap-stock signal.
		if pe != nil && *pe <= 0 {
			pe = nil
		}

		rows = append(rows, contracts.MetricRow{
			Ticker:        c.Ticker,
			CompanyName:   c.Name,
			ASXCode:       c.ASXCode,
			Industry:      industry,
			PE:            pe,
			MarketCap:     toFloat(firstPresent(info, capKeys...)),
			EPS:           toFloat(firstPresent(info, epsKeys...)),
			PriceToBook:   toFloat(firstPresent(info, pbKeys...)),
			DividendYield: toFloat(firstPresent(info, divYieldKeys...)),
		})
	}

	return rows
}

// firstPresent returns the first non-nil attribute among keys.
func firstPresent(info contracts.Attributes, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := info[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// toFloat coerces a raw attribute to a finite float. Anything that
// fails coercion, or is NaN/±Inf, becomes absent (nil) - never zero.
func toFloat(v interface{}) *float64 {
	var f float64

	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
