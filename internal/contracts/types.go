package contracts

// Company is one row of the listed-companies file.
type Company struct {
	Name     string `json:"name"`
	ASXCode  string `json:"asx_code"`
	Industry string `json:"industry"`
	Ticker   string `json:"ticker"` // Yahoo-style symbol, e.g. "BHP.AX"
}

// Attributes is the raw per-ticker attribute map as delivered by the
// market-data source. Values are untyped; the metric builder owns
// coercion and cleaning.
type Attributes map[string]interface{}

// Mode is the selection scope of a strategy run.
type Mode string

const (
	// ModeOverall ranks across the entire metrics table.
	ModeOverall Mode = "overall"
	// ModePerIndustry ranks within each industry group independently.
	ModePerIndustry Mode = "per_industry"
)

// MetricRow is the cleaned numeric view of one ticker. A nil pointer
// means the metric is absent: missing at the source, non-finite, or
// excluded by a domain rule (P/E <= 0).
type MetricRow struct {
	Ticker        string
	CompanyName   string
	ASXCode       string
	Industry      string
	PE            *float64
	MarketCap     *float64
	EPS           *float64
	PriceToBook   *float64
	DividendYield *float64
}

// SelectionRow is a MetricRow selected by one strategy in one mode.
// A ticker may appear once per (strategy, mode) it qualified for.
type SelectionRow struct {
	MetricRow

	Strategy    string
	Mode        Mode
	Rank        int // 1-based, contiguous within its scope
	MetricName  string
	MetricValue float64
	IndustryAvg *float64 // nil for overall mode, and when unresolvable
}
