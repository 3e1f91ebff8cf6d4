package universe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincast/asx-screener/pkg/logger"
)

const listingWithPreamble = `ASX listed companies as at Mon Aug 17 2026

Company name,ASX code,GICS industry group
BHP GROUP LIMITED,BHP,Materials
CSL LIMITED,CSL,"Pharmaceuticals, Biotechnology & Life Sciences"
MYSTERY CORP,MYS,
COMMONWEALTH BANK.,CBA,Banks
`

func writeListing(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listing.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSkipsPreamble(t *testing.T) {
	l := NewLoader(logger.NewNop())

	companies, err := l.Load(writeListing(t, listingWithPreamble), 0)
	require.NoError(t, err)
	require.Len(t, companies, 4)

	bhp := companies[0]
	assert.Equal(t, "BHP GROUP LIMITED", bhp.Name)
	assert.Equal(t, "BHP", bhp.ASXCode)
	assert.Equal(t, "BHP.AX", bhp.Ticker)
	assert.Equal(t, "Materials", bhp.Industry)

	// Quoted industry with embedded comma survives intact.
	assert.Equal(t, "Pharmaceuticals, Biotechnology & Life Sciences", companies[1].Industry)

	// Missing industry group defaults to Unknown.
	assert.Equal(t, "Unknown", companies[2].Industry)
}

func TestLoadMaxTickersCap(t *testing.T) {
	l := NewLoader(logger.NewNop())

	companies, err := l.Load(writeListing(t, listingWithPreamble), 2)
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, "BHP", companies[0].ASXCode)
	assert.Equal(t, "CSL", companies[1].ASXCode)
}

func TestLoadHeaderOnFirstLine(t *testing.T) {
	l := NewLoader(logger.NewNop())

	companies, err := l.Load(writeListing(t, "Company name,ASX code,GICS industry group\nACME LTD,ACM,Tech\n"), 0)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "ACM.AX", companies[0].Ticker)
}

func TestLoadCRLFAndBlankCodes(t *testing.T) {
	l := NewLoader(logger.NewNop())
	content := "preamble\r\nCompany name,ASX code,GICS industry group\r\nACME LTD,ACM,Tech\r\nNO CODE LTD,,Tech\r\n"

	companies, err := l.Load(writeListing(t, content), 0)
	require.NoError(t, err)

	// Rows without an ASX code are dropped.
	require.Len(t, companies, 1)
	assert.Equal(t, "ACM", companies[0].ASXCode)
}

func TestLoadErrors(t *testing.T) {
	l := NewLoader(logger.NewNop())

	t.Run("missing file", func(t *testing.T) {
		_, err := l.Load(filepath.Join(t.TempDir(), "nope.csv"), 0)
		assert.Error(t, err)
	})

	t.Run("no header line", func(t *testing.T) {
		_, err := l.Load(writeListing(t, "just,some,rows\na,b,c\n"), 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "header line")
	})

	t.Run("missing ASX code column", func(t *testing.T) {
		_, err := l.Load(writeListing(t, "Company name,GICS industry group\nACME LTD,Tech\n"), 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ASX code")
	})
}

func TestToYahooTicker(t *testing.T) {
	assert.Equal(t, "BHP.AX", ToYahooTicker("BHP"))
	assert.Equal(t, "BHP.AX", ToYahooTicker(" BHP "))
	// Already-suffixed symbols pass through.
	assert.Equal(t, "BRK.B", ToYahooTicker("BRK.B"))
}
