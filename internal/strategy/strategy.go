package strategy

import (
	"fmt"
	"sort"

	"github.com/fincast/asx-screener/internal/contracts"
)

// Selected is one row picked by a strategy, tagged with the metric it
// was ranked on. MetricValue is the derived ratio for relative
// strategies and the raw metric otherwise.
type Selected struct {
	contracts.MetricRow

	MetricName  string
	MetricValue float64
}

// Result is the output of applying one strategy in one mode.
type Result struct {
	Selections []Selected

	// Ascending is true when a lower metric value is better. Needed
	// downstream to rank selections consistently with the sort the
	// strategy used.
	Ascending bool

	// IndustryBaseline holds the per-industry aggregate the strategy
	// ranked against, when one exists (industry-relative strategies).
	IndustryBaseline map[string]float64
}

// Func applies a strategy over the cleaned metrics table. It never
// mutates its input; rows with an absent required metric are excluded
// before selection.
type Func func(rows []contracts.MetricRow, mode contracts.Mode, n int) Result

var registry = map[string]Func{
	"low_pe_absolute":          LowPEAbsolute,
	"high_market_cap":          HighMarketCap,
	"high_eps":                 HighEPS,
	"high_dividend_yield":      HighDividendYield,
	"low_pe_relative_industry": LowPERelativeIndustry,
}

// Lookup resolves a strategy by name. An unknown name is a
// configuration error and must abort the run.
func Lookup(name string) (Func, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
	return fn, nil
}

// Known reports whether name is a registered strategy.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// Names returns all registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// scored pairs a metrics row with the value it is ranked on.
type scored struct {
	row   contracts.MetricRow
	value float64
}

// selectTop is the shared selection primitive.
//
// Overall mode sorts the whole base table by value (stable) and takes
// the first n rows. Per-industry mode sorts by (industry ascending,
// value) and takes the first n rows of each industry group.
func selectTop(base []scored, mode contracts.Mode, n int, ascending bool) []scored {
	if n <= 0 || len(base) == 0 {
		return nil
	}

	rows := make([]scored, len(base))
	copy(rows, base)

	less := func(a, b float64) bool {
		if ascending {
			return a < b
		}
		return a > b
	}

	if mode == contracts.ModeOverall {
		sort.SliceStable(rows, func(i, j int) bool {
			return less(rows[i].value, rows[j].value)
		})
		if len(rows) > n {
			rows = rows[:n]
		}
		return rows
	}

	// per_industry
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].row.Industry != rows[j].row.Industry {
			return rows[i].row.Industry < rows[j].row.Industry
		}
		return less(rows[i].value, rows[j].value)
	})

	out := make([]scored, 0, len(rows))
	taken := 0
	for i, r := range rows {
		if i == 0 || r.row.Industry != rows[i-1].row.Industry {
			taken = 0
		}
		if taken < n {
			out = append(out, r)
			taken++
		}
	}
	return out
}

// tag converts a selection into the tagged result rows.
func tag(rows []scored, metricName string) []Selected {
	out := make([]Selected, 0, len(rows))
	for _, r := range rows {
		out = append(out, Selected{
			MetricRow:   r.row,
			MetricName:  metricName,
			MetricValue: r.value,
		})
	}
	return out
}
