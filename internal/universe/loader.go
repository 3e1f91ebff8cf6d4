// Package universe loads the listed-companies file that defines which
// tickers a run considers.
package universe

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/fincast/asx-screener/internal/contracts"
	"github.com/fincast/asx-screener/pkg/logger"
)

const (
	companyNameColumn = "Company name"
	asxCodeColumn     = "ASX code"
	industryColumn    = "GICS industry group"
)

// Loader reads the ASX listed-companies CSV.
type Loader struct {
	logger *logger.Logger
}

// NewLoader creates a new universe loader.
func NewLoader(log *logger.Logger) *Loader {
	return &Loader{logger: log}
}

// Load parses the listing file into companies. The ASX file ships with
// preamble lines before the real header, so the header row is located
// by sniffing for "Company name". maxTickers > 0 caps the result for
// quick runs. A missing industry group becomes "Unknown".
func (l *Loader) Load(path string, maxTickers int) ([]contracts.Company, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read listing file: %w", err)
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	headerIdx := -1
	for i, line := range lines {
		if strings.HasPrefix(line, companyNameColumn) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("listing file %s: header line starting with %q not found", path, companyNameColumn)
	}

	r := csv.NewReader(strings.NewReader(strings.Join(lines[headerIdx:], "\n")))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse listing file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("listing file %s: empty after header", path)
	}

	header := records[0]
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	codeIdx, ok := cols[asxCodeColumn]
	if !ok {
		return nil, fmt.Errorf("listing file %s: expected column %q not found", path, asxCodeColumn)
	}
	nameIdx, hasName := cols[companyNameColumn]
	industryIdx, hasIndustry := cols[industryColumn]

	companies := make([]contracts.Company, 0, len(records)-1)
	for _, record := range records[1:] {
		if codeIdx >= len(record) {
			continue
		}
		code := strings.TrimSpace(record[codeIdx])
		if code == "" {
			continue
		}

		c := contracts.Company{
			ASXCode:  code,
			Ticker:   ToYahooTicker(code),
			Industry: "Unknown",
		}
		if hasName && nameIdx < len(record) {
			c.Name = strings.TrimSpace(record[nameIdx])
		}
		if hasIndustry && industryIdx < len(record) {
			if industry := strings.TrimSpace(record[industryIdx]); industry != "" {
				c.Industry = industry
			}
		}

		companies = append(companies, c)
		if maxTickers > 0 && len(companies) >= maxTickers {
			break
		}
	}

	l.logger.WithFields(map[string]interface{}{
		"path":      path,
		"companies": len(companies),
	}).Info("Listing file loaded")

	return companies, nil
}

// ToYahooTicker maps an ASX code to its Yahoo Finance symbol. Codes
// that already carry an exchange suffix pass through unchanged.
func ToYahooTicker(code string) string {
	code = strings.TrimSpace(code)
	if strings.Contains(code, ".") {
		return code
	}
	return code + ".AX"
}
