// Package marketdata resolves per-ticker attribute maps from the
// quote source, with rate limiting and a flat-file cache. All blocking
// I/O happens here, before the ranking core runs.
package marketdata

import (
	"context"

	"github.com/piquette/finance-go/equity"
	"golang.org/x/time/rate"

	"github.com/fincast/asx-screener/internal/contracts"
	"github.com/fincast/asx-screener/pkg/config"
	"github.com/fincast/asx-screener/pkg/logger"
)

// FetchFunc resolves the raw attributes of one symbol. Swappable in
// tests.
type FetchFunc func(symbol string) (contracts.Attributes, error)

// Client fetches quote attributes with caching and rate limiting.
type Client struct {
	cache   *Cache
	limiter *rate.Limiter
	logger  *logger.Logger
	fetch   FetchFunc
}

// New creates a quote client from config.
func New(cfg config.QuoteConfig, log *logger.Logger) *Client {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		cache:   NewCache(cfg.CachePath, cfg.CacheEnabled, log),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst),
		logger:  log,
		fetch:   fetchEquity,
	}
}

// WithFetch overrides the fetch function. Test hook.
func (c *Client) WithFetch(fetch FetchFunc) *Client {
	c.fetch = fetch
	return c
}

// GetAttributes returns the attribute map for one ticker, from cache
// when possible. A failed fetch degrades to an empty map: a ticker
// without data must not fail the run, and the empty result is cached
// to avoid hammering a symbol that keeps erroring.
func (c *Client) GetAttributes(ctx context.Context, ticker string) (contracts.Attributes, error) {
	if attrs, ok := c.cache.Get(ticker); ok {
		return attrs, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	attrs, err := c.fetch(ticker)
	if err != nil {
		c.logger.WithError(err).WithField("ticker", ticker).Warn("Quote fetch failed")
		attrs = contracts.Attributes{}
	}
	if attrs == nil {
		attrs = contracts.Attributes{}
	}

	c.cache.Put(ticker, attrs)
	return attrs, nil
}

// GetAttributesBulk resolves attributes for all tickers. Only context
// cancellation aborts the loop; per-ticker failures degrade to empty
// maps.
func (c *Client) GetAttributesBulk(ctx context.Context, tickers []string) (map[string]contracts.Attributes, error) {
	out := make(map[string]contracts.Attributes, len(tickers))
	for _, t := range tickers {
		attrs, err := c.GetAttributes(ctx, t)
		if err != nil {
			return nil, err
		}
		out[t] = attrs
	}

	c.logger.WithFields(map[string]interface{}{
		"tickers": len(tickers),
		"cached":  c.cache.Len(),
	}).Info("Quote attributes resolved")

	return out, nil
}

// SaveCache persists the attribute cache.
func (c *Client) SaveCache() error {
	return c.cache.Save()
}

// fetchEquity pulls one symbol's fundamentals from the quote API.
// Zero values mean the field was not populated upstream, so only
// populated fields make it into the attribute map.
func fetchEquity(symbol string) (contracts.Attributes, error) {
	q, err := equity.Get(symbol)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return contracts.Attributes{}, nil
	}

	attrs := contracts.Attributes{}
	putNonZero(attrs, "trailingPE", q.TrailingPE)
	putNonZero(attrs, "forwardPE", q.ForwardPE)
	putNonZero(attrs, "trailingEps", q.EpsTrailingTwelveMonths)
	putNonZero(attrs, "forwardEps", q.EpsForward)
	putNonZero(attrs, "priceToBook", q.PriceToBook)
	putNonZero(attrs, "dividendYield", q.TrailingAnnualDividendYield)
	putNonZero(attrs, "regularMarketPrice", q.RegularMarketPrice)
	if q.MarketCap > 0 {
		attrs["marketCap"] = float64(q.MarketCap)
	}
	if q.ShortName != "" {
		attrs["shortName"] = q.ShortName
	}
	return attrs, nil
}

func putNonZero(attrs contracts.Attributes, key string, v float64) {
	if v != 0 {
		attrs[key] = v
	}
}
