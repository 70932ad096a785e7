package interfaces

import (
	"context"

	"llm-hedge-fund/internal/types"
)

// Provider is the market-data collaborator. All lookups are idempotent for a
// fixed (ticker, window) and return results most recent first. A provider
// that has no data for a ticker returns an empty slice and a nil error;
// callers treat that as data-unavailable, not as a failure.
type Provider interface {
	FinancialMetrics(ctx context.Context, ticker, asOf, period string, limit int) ([]types.FinancialMetrics, error)
	Prices(ctx context.Context, ticker, start, end string) ([]types.Price, error)
	CompanyNews(ctx context.Context, ticker, asOf, start string) ([]types.CompanyNews, error)
	MarketStatus(ctx context.Context) (types.MarketStatus, error)
	MarketHolidays(ctx context.Context) ([]types.MarketHoliday, error)
}
