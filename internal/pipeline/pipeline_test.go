package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincast/asx-screener/internal/contracts"
	"github.com/fincast/asx-screener/internal/report"
	"github.com/fincast/asx-screener/internal/strategyconfig"
	"github.com/fincast/asx-screener/pkg/config"
	"github.com/fincast/asx-screener/pkg/logger"
)

type fakeQuotes struct {
	attrs map[string]contracts.Attributes
	err   error
	saved bool
}

func (f *fakeQuotes) GetAttributesBulk(_ context.Context, tickers []string) (map[string]contracts.Attributes, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]contracts.Attributes, len(tickers))
	for _, t := range tickers {
		if a, ok := f.attrs[t]; ok {
			out[t] = a
		} else {
			out[t] = contracts.Attributes{}
		}
	}
	return out, nil
}

func (f *fakeQuotes) SaveCache() error {
	f.saved = true
	return nil
}

const testListing = `ASX listed companies snapshot

Company name,ASX code,GICS industry group
ALPHA LTD,ALP,Software & Services
BETA LTD,BET,Software & Services
GAMMA LTD,GAM,Banks
DELTA LTD,DEL,Banks
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	listing := filepath.Join(dir, "listing.csv")
	require.NoError(t, os.WriteFile(listing, []byte(testListing), 0o644))

	return &config.Config{
		ListingCSV: listing,
		OutDir:     filepath.Join(dir, "outputs"),
	}
}

func testStrategies() *strategyconfig.Config {
	return &strategyconfig.Config{
		Meta: strategyconfig.Meta{SetID: "test", Version: "1"},
		Strategies: []strategyconfig.Spec{
			{Name: "low_pe_absolute", TopOverall: 2, TopPerIndustry: 1},
			{Name: "high_market_cap", TopOverall: 2},
		},
	}
}

func testAttrs() map[string]contracts.Attributes {
	return map[string]contracts.Attributes{
		"ALP.AX": {"trailingPE": 30.0, "marketCap": 1e9},
		"BET.AX": {"trailingPE": 10.0, "marketCap": 9e9},
		"GAM.AX": {"trailingPE": 8.0, "marketCap": 5e10},
		"DEL.AX": {"trailingPE": 12.0, "marketCap": 4e10},
	}
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	quotes := &fakeQuotes{attrs: testAttrs()}
	p := New(cfg, testStrategies(), quotes, logger.NewNop())

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, 4, summary.TickersLoaded)
	assert.True(t, quotes.saved)
	assert.DirExists(t, summary.RunDir)

	// Standard reports plus one CSV per strategy-mode pairing.
	for _, name := range []string{
		report.TickersFile,
		report.LongFile,
		report.WideFile,
		report.IndustryPivotFile,
		report.MetadataFile,
		report.StrategyModeFile("low_pe_absolute", contracts.ModeOverall),
		report.StrategyModeFile("low_pe_absolute", contracts.ModePerIndustry),
		report.StrategyModeFile("high_market_cap", contracts.ModeOverall),
	} {
		assert.FileExists(t, filepath.Join(summary.RunDir, name), name)
	}

	// low_pe overall top 2 + low_pe per-industry top 1 x 2 industries
	// + market cap top 2.
	assert.Equal(t, 6, summary.SelectedRows)

	meta, err := report.ReadRunMetadata(summary.RunDir)
	require.NoError(t, err)
	assert.Equal(t, "success", meta.Status)
	assert.Equal(t, summary.RunID, meta.RunID)
	assert.Equal(t, 4, meta.Counts.TickersLoaded)
	assert.Equal(t, 6, meta.Counts.SelectedRows)
	assert.NotEmpty(t, meta.ConfigHash)
	assert.NotEmpty(t, meta.OutputFiles)
}

func TestRunQuoteFailureStillWritesMetadata(t *testing.T) {
	cfg := testConfig(t)
	quotes := &fakeQuotes{err: errors.New("quote source down")}
	p := New(cfg, testStrategies(), quotes, logger.NewNop())

	summary, err := p.Run(context.Background())
	require.Error(t, err)
	require.NotNil(t, summary)

	meta, metaErr := report.ReadRunMetadata(summary.RunDir)
	require.NoError(t, metaErr)
	assert.Equal(t, "error", meta.Status)
	require.NotNil(t, meta.Error)
	assert.Contains(t, meta.Error.Message, "quote source down")
	assert.NotEmpty(t, meta.Error.Type)
}

func TestRunUnknownStrategyAborts(t *testing.T) {
	cfg := testConfig(t)
	strategies := &strategyconfig.Config{
		Strategies: []strategyconfig.Spec{{Name: "nonexistent", TopOverall: 5}},
	}
	p := New(cfg, strategies, &fakeQuotes{attrs: testAttrs()}, logger.NewNop())

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy: nonexistent")
}

func TestRunMissingListingFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.ListingCSV = filepath.Join(t.TempDir(), "missing.csv")
	p := New(cfg, testStrategies(), &fakeQuotes{}, logger.NewNop())

	summary, err := p.Run(context.Background())
	require.Error(t, err)

	// Even an early failure leaves a run directory with metadata.
	meta, metaErr := report.ReadRunMetadata(summary.RunDir)
	require.NoError(t, metaErr)
	assert.Equal(t, "error", meta.Status)
}
