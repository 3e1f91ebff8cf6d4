package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincast/asx-screener/internal/contracts"
	"github.com/fincast/asx-screener/internal/metrics"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestNewRunDir(t *testing.T) {
	root := t.TempDir()

	runDir, runID, err := NewRunDir(root)
	require.NoError(t, err)

	assert.DirExists(t, runDir)
	assert.Equal(t, filepath.Join(root, "runs", runID), runDir)
	// <YYYYMMDD_HHMMSS>_<8 hex chars>
	assert.Len(t, runID, 15+1+8)
}

func TestWriteTickersCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.csv")

	require.NoError(t, WriteTickersCSV(path, []string{"A.AX", "B.AX"}))

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"ticker"}, records[0])
	assert.Equal(t, []string{"A.AX"}, records[1])
	assert.Equal(t, []string{"B.AX"}, records[2])
}

func TestWriteSelectionsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.csv")
	avg := 15.0

	selected := []contracts.SelectionRow{
		{
			MetricRow: contracts.MetricRow{
				Ticker: "A.AX", Industry: "Tech", CompanyName: "Alpha Ltd", ASXCode: "A",
			},
			Strategy:    "low_pe_absolute",
			Mode:        contracts.ModePerIndustry,
			Rank:        1,
			MetricName:  "pe",
			MetricValue: 10,
			IndustryAvg: &avg,
		},
		{
			MetricRow: contracts.MetricRow{Ticker: "B.AX", Industry: "Health"},
			Strategy:  "low_pe_absolute",
			Mode:      contracts.ModeOverall,
			Rank:      2, MetricName: "pe", MetricValue: 12.5,
		},
	}

	require.NoError(t, WriteSelectionsCSV(path, selected))

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{
		"ticker", "industry", "strategy", "mode", "rank",
		"metric_name", "metric_value", "industry_avg",
		"company_name", "asx_code",
	}, records[0])
	assert.Equal(t, []string{
		"A.AX", "Tech", "low_pe_absolute", "per_industry", "1",
		"pe", "10", "15", "Alpha Ltd", "A",
	}, records[1])
	// Overall row: empty industry_avg cell.
	assert.Equal(t, "", records[2][7])
	assert.Equal(t, "12.5", records[2][6])
}

func TestWriteWideCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.csv")

	selected := []contracts.SelectionRow{
		sel("A.AX", "Tech", "low_pe_absolute", contracts.ModeOverall, 1, 10),
		sel("B.AX", "Health", "high_eps", contracts.ModeOverall, 1, 3),
	}
	wide := BuildWide(selected)

	require.NoError(t, WriteWideCSV(path, wide))

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{
		"ticker", "industry",
		"high_eps_overall_rank", "low_pe_absolute_overall_rank",
		"high_eps_overall_value", "low_pe_absolute_overall_value",
		"selected_in",
	}, records[0])

	// A.AX: selected by low_pe only.
	assert.Equal(t, []string{"A.AX", "Tech", "", "1", "", "10", "low_pe_absolute_overall"}, records[1])
	assert.Equal(t, []string{"B.AX", "Health", "1", "", "3", "", "high_eps_overall"}, records[2])
}

func TestWriteIndustryPivotCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pivot.csv")
	pe10 := 10.0

	pivot := []metrics.PivotRow{
		{
			Industry: "Tech",
			Summaries: map[string]metrics.Summary{
				"pe":             {Avg: &pe10, Median: &pe10, N: 1},
				"market_cap":     {},
				"eps":            {},
				"price_to_book":  {},
				"dividend_yield": {},
			},
		},
	}

	require.NoError(t, WriteIndustryPivotCSV(path, pivot))

	records := readCSV(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, "industry", records[0][0])
	assert.Equal(t, "avg_pe", records[0][1])
	assert.Equal(t, "median_pe", records[0][2])
	assert.Equal(t, "n_pe", records[0][3])

	assert.Equal(t, "Tech", records[1][0])
	assert.Equal(t, "10", records[1][1])
	assert.Equal(t, "1", records[1][3])
	// Empty metric: blank aggregates, zero count.
	assert.Equal(t, "", records[1][4])
	assert.Equal(t, "0", records[1][6])
}

func TestRunMetadataRoundTrip(t *testing.T) {
	dir := t.TempDir()

	meta := NewRunMetadata("20260823_120000_abcd1234", "outputs", dir)
	meta.Counts = Counts{TickersLoaded: 10, SelectedRows: 25}
	meta.AddOutputFile("tickers.csv")
	meta.Finish(nil)

	require.NoError(t, WriteRunMetadata(dir, meta))

	got, err := ReadRunMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, "success", got.Status)
	assert.Equal(t, meta.RunID, got.RunID)
	assert.Equal(t, 10, got.Counts.TickersLoaded)
	assert.Equal(t, []string{"tickers.csv"}, got.OutputFiles)
	assert.Nil(t, got.Error)
}

func TestRunMetadataFinishWithError(t *testing.T) {
	meta := NewRunMetadata("id", "outputs", "dir")
	meta.Finish(assert.AnError)

	assert.Equal(t, "error", meta.Status)
	require.NotNil(t, meta.Error)
	assert.Equal(t, assert.AnError.Error(), meta.Error.Message)
	assert.Equal(t, "*errors.errorString", meta.Error.Type)
}

func TestListRunsNewestFirst(t *testing.T) {
	root := t.TempDir()
	runsRoot := filepath.Join(root, "runs")
	require.NoError(t, os.MkdirAll(filepath.Join(runsRoot, "20260101_000000_aaaaaaaa"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(runsRoot, "20260201_000000_bbbbbbbb"), 0o755))

	runs, err := ListRuns(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260201_000000_bbbbbbbb", "20260101_000000_aaaaaaaa"}, runs)

	// Missing runs dir is not an error.
	empty, err := ListRuns(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
