// Package strategyconfig defines the YAML strategy-set file: which
// strategies a run executes and how many rows each selects.
package strategyconfig

// Config is the full strategy-set configuration.
type Config struct {
	Meta       Meta   `yaml:"meta" json:"meta"`
	Strategies []Spec `yaml:"strategies" json:"strategies"`
}

// Meta identifies a strategy set.
type Meta struct {
	SetID   string `yaml:"set_id" json:"set_id"`
	Version string `yaml:"version" json:"version"`
}

// Spec configures one strategy. A zero count disables that mode.
type Spec struct {
	Name           string `yaml:"name" json:"name"`
	TopOverall     int    `yaml:"top_overall" json:"top_overall"`
	TopPerIndustry int    `yaml:"top_per_industry" json:"top_per_industry"`
}

// Default returns the standard strategy set: every strategy, overall
// top 50 and top 2 per industry.
func Default() *Config {
	return &Config{
		Meta: Meta{
			SetID:   "asx_value_screen",
			Version: "1",
		},
		Strategies: []Spec{
			{Name: "low_pe_relative_industry", TopOverall: 50, TopPerIndustry: 2},
			{Name: "low_pe_absolute", TopOverall: 50, TopPerIndustry: 2},
			{Name: "high_market_cap", TopOverall: 50, TopPerIndustry: 2},
			{Name: "high_eps", TopOverall: 50, TopPerIndustry: 2},
			{Name: "high_dividend_yield", TopOverall: 50, TopPerIndustry: 2},
		},
	}
}
