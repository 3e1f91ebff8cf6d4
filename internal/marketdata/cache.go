package marketdata

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fincast/asx-screener/internal/contracts"
	"github.com/fincast/asx-screener/pkg/logger"
)

// Cache is a flat-file store of raw attribute maps keyed by ticker.
// It exists so repeated runs do not re-hit the quote source; a corrupt
// or missing file is ignored, never fatal.
type Cache struct {
	path    string
	enabled bool
	entries map[string]contracts.Attributes
	logger  *logger.Logger
}

// NewCache opens (or initializes) the attribute cache at path.
func NewCache(path string, enabled bool, log *logger.Logger) *Cache {
	c := &Cache{
		path:    path,
		enabled: enabled,
		entries: make(map[string]contracts.Attributes),
		logger:  log,
	}

	if !enabled {
		return c
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		// Corrupt or incompatible cache: start fresh.
		log.WithError(err).WithField("path", path).Warn("Ignoring unreadable quote cache")
		c.entries = make(map[string]contracts.Attributes)
	}
	return c
}

// Get returns the cached attributes for a ticker, if any.
func (c *Cache) Get(ticker string) (contracts.Attributes, bool) {
	attrs, ok := c.entries[ticker]
	return attrs, ok
}

// Put stores attributes for a ticker. Empty maps are stored too, so a
// failed fetch is not retried within the cache's lifetime.
func (c *Cache) Put(ticker string, attrs contracts.Attributes) {
	c.entries[ticker] = attrs
}

// Len returns the number of cached tickers.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Save persists the cache to its flat file. No-op when disabled.
func (c *Cache) Save() error {
	if !c.enabled {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	clean := make(map[string]contracts.Attributes, len(c.entries))
	for ticker, attrs := range c.entries {
		clean[ticker] = sanitizeAttributes(attrs)
	}

	data, err := json.MarshalIndent(clean, "", "  ")
	if err != nil {
		return fmt.Errorf("encode quote cache: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write quote cache: %w", err)
	}
	return nil
}

// sanitizeAttributes makes an attribute map JSON-stable: non-finite
// numbers and their string spellings become nil.
func sanitizeAttributes(attrs contracts.Attributes) contracts.Attributes {
	clean := make(contracts.Attributes, len(attrs))
	for k, v := range attrs {
		clean[k] = sanitize(v)
	}
	return clean
}

func sanitize(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "infinity", "+infinity", "-infinity", "inf", "+inf", "-inf", "nan":
			return nil
		}
		return x
	case map[string]interface{}:
		clean := make(map[string]interface{}, len(x))
		for k, val := range x {
			clean[k] = sanitize(val)
		}
		return clean
	case []interface{}:
		clean := make([]interface{}, len(x))
		for i, val := range x {
			clean[i] = sanitize(val)
		}
		return clean
	default:
		return v
	}
}
