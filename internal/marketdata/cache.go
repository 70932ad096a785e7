package marketdata

import (
	"sort"
	"sync"

	"llm-hedge-fund/internal/types"
)

// Cache is the process-wide in-memory store for provider responses. Several
// strategies fetch overlapping windows concurrently, so writes for the same
// ticker merge by the entry's natural key (bar date, report period, article
// URL) instead of clobbering the previous window.
type Cache struct {
	mu      sync.Mutex
	prices  map[string][]types.Price
	metrics map[string][]types.FinancialMetrics
	news    map[string][]types.CompanyNews
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		prices:  map[string][]types.Price{},
		metrics: map[string][]types.FinancialMetrics{},
		news:    map[string][]types.CompanyNews{},
	}
}

// Clear drops all cached entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices = map[string][]types.Price{}
	c.metrics = map[string][]types.FinancialMetrics{}
	c.news = map[string][]types.CompanyNews{}
}

// Prices returns the cached bars for a ticker, most recent first.
func (c *Cache) Prices(ticker string) []types.Price {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.Price(nil), c.prices[ticker]...)
}

// SetPrices merges bars into the ticker's cached series, keyed by bar date.
func (c *Cache) SetPrices(ticker string, bars []types.Price) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices[ticker] = mergeByKey(c.prices[ticker], bars, func(p types.Price) string { return p.Time })
}

// FinancialMetrics returns the cached snapshots for a ticker, most recent
// first.
func (c *Cache) FinancialMetrics(ticker string) []types.FinancialMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.FinancialMetrics(nil), c.metrics[ticker]...)
}

// SetFinancialMetrics merges snapshots keyed by report period.
func (c *Cache) SetFinancialMetrics(ticker string, snaps []types.FinancialMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics[ticker] = mergeByKey(c.metrics[ticker], snaps, func(m types.FinancialMetrics) string { return m.ReportPeriod })
}

// CompanyNews returns the cached articles for a ticker, most recent first.
func (c *Cache) CompanyNews(ticker string) []types.CompanyNews {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.CompanyNews(nil), c.news[ticker]...)
}

// SetCompanyNews merges articles. The URL is the dedupe key when present
// since several articles can share a date.
func (c *Cache) SetCompanyNews(ticker string, items []types.CompanyNews) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.news[ticker] = mergeByKey(c.news[ticker], items, newsKey)
}

func newsKey(n types.CompanyNews) string {
	if n.URL != "" {
		return n.URL
	}
	return n.Date + "|" + n.Title
}

// mergeByKey deduplicates incoming against existing by key, existing entries
// winning, and returns the union sorted by key descending. Date-shaped keys
// sort most recent first.
func mergeByKey[T any](existing, incoming []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(existing))
	merged := append([]T(nil), existing...)
	for _, item := range existing {
		seen[key(item)] = struct{}{}
	}
	for _, item := range incoming {
		k := key(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, item)
	}
	sort.Slice(merged, func(i, j int) bool { return key(merged[i]) > key(merged[j]) })
	return merged
}
