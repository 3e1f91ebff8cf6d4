// Package report reshapes the unified selection table into the
// ticker-centric and industry-centric outputs of a run.
package report

import (
	"sort"

	"github.com/fincast/asx-screener/internal/contracts"
)

// Key identifies one strategy×mode combination observed in the
// unified selection table.
type Key struct {
	Strategy string
	Mode     contracts.Mode
}

// Label is the column prefix used in the wide report, e.g.
// "low_pe_absolute_overall".
func (k Key) Label() string {
	return k.Strategy + "_" + string(k.Mode)
}

// Cell is one ticker's result under one strategy×mode.
type Cell struct {
	Rank  int
	Value float64
}

// WideRow is one row of the wide report: a single ticker with one cell
// per strategy×mode it was selected in.
type WideRow struct {
	Ticker     string
	Industry   string
	Cells      map[Key]Cell
	SelectedIn string // comma-separated labels, in column order
}

// Wide is the deduplicated per-ticker report. Keys fixes the column
// order; every row's cells are read against it.
type Wide struct {
	Keys []Key
	Rows []WideRow
}

// DistinctTickers returns the unique non-empty tickers of the unified
// selection table, sorted ascending.
func DistinctTickers(selected []contracts.SelectionRow) []string {
	seen := make(map[string]struct{})
	for _, row := range selected {
		if row.Ticker == "" {
			continue
		}
		seen[row.Ticker] = struct{}{}
	}

	tickers := make([]string, 0, len(seen))
	for t := range seen {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// BuildWide pivots the unified selection table to one row per distinct
// ticker with a (rank, value) column pair per observed strategy×mode.
//
// Ranks aggregate by minimum and values by first observation - a
// ticker cannot legitimately hold two ranks under one strategy×mode,
// but min is the tie-break policy if it ever does. The industry column
// carries the first non-empty industry seen for the ticker.
func BuildWide(selected []contracts.SelectionRow) Wide {
	keySet := make(map[Key]struct{})
	for _, row := range selected {
		keySet[Key{Strategy: row.Strategy, Mode: row.Mode}] = struct{}{}
	}

	keys := make([]Key, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Strategy != keys[j].Strategy {
			return keys[i].Strategy < keys[j].Strategy
		}
		return keys[i].Mode < keys[j].Mode
	})

	cells := make(map[string]map[Key]Cell)
	industries := make(map[string]string)
	for _, row := range selected {
		if row.Ticker == "" {
			continue
		}

		byKey, ok := cells[row.Ticker]
		if !ok {
			byKey = make(map[Key]Cell)
			cells[row.Ticker] = byKey
		}

		k := Key{Strategy: row.Strategy, Mode: row.Mode}
		if existing, ok := byKey[k]; ok {
			// Duplicate (ticker, strategy, mode): keep min rank,
			// first value.
			if row.Rank < existing.Rank {
				existing.Rank = row.Rank
				byKey[k] = existing
			}
		} else {
			byKey[k] = Cell{Rank: row.Rank, Value: row.MetricValue}
		}

		if _, ok := industries[row.Ticker]; !ok && row.Industry != "" {
			industries[row.Ticker] = row.Industry
		}
	}

	rows := make([]WideRow, 0, len(cells))
	for _, ticker := range DistinctTickers(selected) {
		row := WideRow{
			Ticker:   ticker,
			Industry: industries[ticker],
			Cells:    cells[ticker],
		}
		row.SelectedIn = selectedIn(row, keys)
		rows = append(rows, row)
	}

	return Wide{Keys: keys, Rows: rows}
}

func selectedIn(row WideRow, keys []Key) string {
	out := ""
	for _, k := range keys {
		if _, ok := row.Cells[k]; !ok {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += k.Label()
	}
	return out
}
