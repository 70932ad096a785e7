package analyst

import (
	"context"
	"fmt"

	"llm-hedge-fund/internal/types"
)

// fakeProvider serves canned data per ticker. A ticker listed in failures
// errors on every lookup.
type fakeProvider struct {
	metrics  map[string][]types.FinancialMetrics
	prices   map[string][]types.Price
	news     map[string][]types.CompanyNews
	failures map[string]bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		metrics:  map[string][]types.FinancialMetrics{},
		prices:   map[string][]types.Price{},
		news:     map[string][]types.CompanyNews{},
		failures: map[string]bool{},
	}
}

func (p *fakeProvider) FinancialMetrics(ctx context.Context, ticker, asOf, period string, limit int) ([]types.FinancialMetrics, error) {
	if p.failures[ticker] {
		return nil, fmt.Errorf("upstream failure for %s", ticker)
	}
	return p.metrics[ticker], nil
}

func (p *fakeProvider) Prices(ctx context.Context, ticker, start, end string) ([]types.Price, error) {
	if p.failures[ticker] {
		return nil, fmt.Errorf("upstream failure for %s", ticker)
	}
	return p.prices[ticker], nil
}

func (p *fakeProvider) CompanyNews(ctx context.Context, ticker, asOf, start string) ([]types.CompanyNews, error) {
	if p.failures[ticker] {
		return nil, fmt.Errorf("upstream failure for %s", ticker)
	}
	return p.news[ticker], nil
}

func (p *fakeProvider) MarketStatus(ctx context.Context) (types.MarketStatus, error) {
	return types.MarketStatus{Market: "open"}, nil
}

func (p *fakeProvider) MarketHolidays(ctx context.Context) ([]types.MarketHoliday, error) {
	return nil, nil
}

func fptr(v float64) *float64 { return &v }

// descendingBars builds daily bars most recent first from an oldest-first
// close series, mirroring provider ordering.
func descendingBars(closes []float64) []types.Price {
	bars := make([]types.Price, len(closes))
	for i, c := range closes {
		bars[len(closes)-1-i] = types.Price{
			Time:   fmt.Sprintf("2024-%02d-%02d", 1+i/28, 1+i%28),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}
