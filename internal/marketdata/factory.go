package marketdata

import (
	"time"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/store"
)

// New wires a provider from config: shared cache, token-bucket limiter, and
// the optional scraping fallback for news.
func New(cfg *store.Config) interfaces.Provider {
	cache := NewCache()
	limiter := NewRateLimiter(cfg.Data.RateBurst, time.Duration(cfg.Data.RateIntervalMs)*time.Millisecond)

	opts := []ClientOption{}
	if cfg.News.ScrapeFallback {
		opts = append(opts, WithNewsScraper(NewNewsScraper(time.Duration(cfg.News.TimeoutSeconds)*time.Second)))
	}
	return NewClient(
		cfg.Data.BaseURL,
		cfg.Data.APIKeyEnv,
		cache,
		limiter,
		cfg.Data.MaxRetries,
		time.Duration(cfg.Data.BackoffSeconds)*time.Second,
		opts...,
	)
}
