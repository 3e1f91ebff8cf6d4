package strategyconfig

import (
	"fmt"

	"github.com/fincast/asx-screener/internal/strategy"
)

// Validate checks a strategy set for configuration errors. An unknown
// strategy name is fatal for the whole run, not a data problem.
func Validate(cfg *Config) error {
	if len(cfg.Strategies) == 0 {
		return fmt.Errorf("strategy set %q: no strategies configured", cfg.Meta.SetID)
	}

	seen := make(map[string]struct{}, len(cfg.Strategies))
	for _, spec := range cfg.Strategies {
		if !strategy.Known(spec.Name) {
			return fmt.Errorf("unknown strategy: %s (known: %v)", spec.Name, strategy.Names())
		}

		if _, dup := seen[spec.Name]; dup {
			return fmt.Errorf("strategy %s configured twice", spec.Name)
		}
		seen[spec.Name] = struct{}{}

		if spec.TopOverall < 0 {
			return fmt.Errorf("strategy %s: top_overall must not be negative", spec.Name)
		}
		if spec.TopPerIndustry < 0 {
			return fmt.Errorf("strategy %s: top_per_industry must not be negative", spec.Name)
		}
	}

	return nil
}
