package config_test

import (
	"fmt"

	"github.com/fincast/asx-screener/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("Listing CSV: %s\n", cfg.ListingCSV)
	fmt.Printf("Strategy file: %s\n", cfg.StrategyFile)
	fmt.Printf("Output dir: %s\n", cfg.OutDir)
}
