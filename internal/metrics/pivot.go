package metrics

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/fincast/asx-screener/internal/contracts"
)

// Summary aggregates one metric within one industry.
type Summary struct {
	Avg    *float64
	Median *float64
	N      int // non-null count
}

// PivotRow is one industry's aggregate view across all metrics.
type PivotRow struct {
	Industry  string
	Summaries map[string]Summary // keyed by metric name
}

// BuildIndustryPivot aggregates the metrics table per industry:
// mean, median and non-null count for every metric column. Rows with
// no industry fall into the explicit "Unknown" bucket. The result is
// sorted by industry name ascending.
func BuildIndustryPivot(rows []contracts.MetricRow) []PivotRow {
	grouped := make(map[string][]contracts.MetricRow)
	for _, row := range rows {
		industry := row.Industry
		if industry == "" {
			industry = "Unknown"
		}
		grouped[industry] = append(grouped[industry], row)
	}

	industries := make([]string, 0, len(grouped))
	for industry := range grouped {
		industries = append(industries, industry)
	}
	sort.Strings(industries)

	pivot := make([]PivotRow, 0, len(industries))
	for _, industry := range industries {
		summaries := make(map[string]Summary, len(Names()))
		for _, name := range Names() {
			summaries[name] = summarize(grouped[industry], name)
		}
		pivot = append(pivot, PivotRow{Industry: industry, Summaries: summaries})
	}
	return pivot
}

func summarize(rows []contracts.MetricRow, name string) Summary {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v, ok := ValueByName(row, name); ok && v != nil {
			values = append(values, *v)
		}
	}

	if len(values) == 0 {
		return Summary{N: 0}
	}

	avg := stat.Mean(values, nil)
	median := medianOf(values)

	return Summary{Avg: &avg, Median: &median, N: len(values)}
}

// medianOf is the interpolating median: the midpoint of the two middle
// samples when the count is even. Sorts its argument in place.
func medianOf(values []float64) float64 {
	sort.Float64s(values)
	n := len(values)
	if n%2 == 0 {
		return (values[n/2-1] + values[n/2]) / 2
	}
	return values[n/2]
}
