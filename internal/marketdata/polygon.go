package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"time"

	"llm-hedge-fund/internal/logger"
	"llm-hedge-fund/internal/trace"
	"llm-hedge-fund/internal/types"
)

// Client is a Polygon-style market data provider. Responses merge into the
// shared cache so repeated lookups for a (ticker, window) are served locally,
// and all requests pass through the token-bucket limiter with a bounded
// exponential-backoff retry budget on 429s.
type Client struct {
	baseURL    string
	apiKeyEnv  string
	httpClient *http.Client
	cache      *Cache
	limiter    *RateLimiter
	maxRetries int
	backoff    time.Duration
	scraper    *NewsScraper // optional fallback when the news endpoint is empty
}

type ClientOption func(*Client)

// WithNewsScraper enables the scraping fallback for company news.
func WithNewsScraper(s *NewsScraper) ClientOption {
	return func(c *Client) { c.scraper = s }
}

// NewClient builds a provider client.
func NewClient(baseURL, apiKeyEnv string, cache *Cache, limiter *RateLimiter, maxRetries int, backoff time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKeyEnv:  apiKeyEnv,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache,
		limiter:    limiter,
		maxRetries: maxRetries,
		backoff:    backoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prices returns daily bars for [start, end], most recent first.
func (c *Client) Prices(ctx context.Context, ticker, start, end string) ([]types.Price, error) {
	if cached := filterPrices(c.cache.Prices(ticker), start, end); len(cached) > 0 {
		return cached, nil
	}

	ctx, span := trace.StartSpan(ctx, "marketdata.prices")
	defer span.End()

	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/day/%s/%s", url.PathEscape(ticker), start, end)
	var resp struct {
		Results []struct {
			T  int64   `json:"t"` // epoch millis
			O  float64 `json:"o"`
			H  float64 `json:"h"`
			L  float64 `json:"l"`
			C  float64 `json:"c"`
			V  float64 `json:"v"`
			VW float64 `json:"vw"`
		} `json:"results"`
	}
	if err := c.get(ctx, path, url.Values{"adjusted": {"true"}, "sort": {"asc"}, "limit": {"5000"}}, &resp); err != nil {
		return nil, err
	}

	bars := make([]types.Price, 0, len(resp.Results))
	for _, r := range resp.Results {
		bars = append(bars, types.Price{
			Time:   time.UnixMilli(r.T).UTC().Format("2006-01-02"),
			Open:   r.O,
			High:   r.H,
			Low:    r.L,
			Close:  r.C,
			Volume: int64(r.V),
			VWAP:   r.VW,
		})
	}
	c.cache.SetPrices(ticker, bars)
	return filterPrices(c.cache.Prices(ticker), start, end), nil
}

// FinancialMetrics returns fundamentals snapshots as of asOf, most recent
// first, at most limit entries.
func (c *Client) FinancialMetrics(ctx context.Context, ticker, asOf, period string, limit int) ([]types.FinancialMetrics, error) {
	if cached := filterMetrics(c.cache.FinancialMetrics(ticker), asOf, limit); len(cached) >= limit {
		return cached, nil
	}

	ctx, span := trace.StartSpan(ctx, "marketdata.financial_metrics")
	defer span.End()

	// One extra period so growth rates can be derived for the newest snapshot.
	q := url.Values{
		"ticker":                    {ticker},
		"period_of_report_date.lte": {asOf},
		"timeframe":                 {timeframeFor(period)},
		"limit":                     {fmt.Sprintf("%d", maxInt(limit, 1)+1)},
		"order":                     {"desc"},
		"sort":                      {"period_of_report_date"},
	}
	var resp struct {
		Results []struct {
			PeriodOfReportDate string   `json:"period_of_report_date"`
			MarketCap          *float64 `json:"market_cap"`
			Financials         struct {
				IncomeStatement struct {
					Revenues        valueField `json:"revenues"`
					NetIncomeLoss   valueField `json:"net_income_loss"`
					OperatingIncome valueField `json:"operating_income_loss"`
				} `json:"income_statement"`
				BalanceSheet struct {
					Assets             valueField `json:"assets"`
					Liabilities        valueField `json:"liabilities"`
					CurrentAssets      valueField `json:"current_assets"`
					CurrentLiabilities valueField `json:"current_liabilities"`
					Equity             valueField `json:"equity"`
					SharesOutstanding  valueField `json:"shares_outstanding"`
				} `json:"balance_sheet"`
				CashFlowStatement struct {
					FreeCashFlow                       valueField `json:"free_cash_flow"`
					NetCashFlowFromOperatingActivities valueField `json:"net_cash_flow_from_operating_activities"`
					CapitalExpenditure                 valueField `json:"capital_expenditure"`
				} `json:"cash_flow_statement"`
			} `json:"financials"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/vX/reference/financials", q, &resp); err != nil {
		return nil, err
	}

	snaps := make([]types.FinancialMetrics, 0, len(resp.Results))
	for i, r := range resp.Results {
		m := deriveMetrics(r.PeriodOfReportDate, statementLines{
			revenue:            r.Financials.IncomeStatement.Revenues.ptr(),
			netIncome:          r.Financials.IncomeStatement.NetIncomeLoss.ptr(),
			operatingIncome:    r.Financials.IncomeStatement.OperatingIncome.ptr(),
			currentAssets:      r.Financials.BalanceSheet.CurrentAssets.ptr(),
			currentLiabilities: r.Financials.BalanceSheet.CurrentLiabilities.ptr(),
			liabilities:        r.Financials.BalanceSheet.Liabilities.ptr(),
			equity:             r.Financials.BalanceSheet.Equity.ptr(),
			sharesOutstanding:  r.Financials.BalanceSheet.SharesOutstanding.ptr(),
			marketCap:          r.MarketCap,
			freeCashFlow:       r.Financials.CashFlowStatement.FreeCashFlow.ptr(),
			operatingCashFlow:  r.Financials.CashFlowStatement.NetCashFlowFromOperatingActivities.ptr(),
			capitalExpenditure: r.Financials.CashFlowStatement.CapitalExpenditure.ptr(),
		})
		if i+1 < len(resp.Results) {
			prev := resp.Results[i+1]
			m.RevenueGrowth = growthRate(
				r.Financials.IncomeStatement.Revenues.ptr(),
				prev.Financials.IncomeStatement.Revenues.ptr(),
			)
			m.EarningsGrowth = growthRate(
				r.Financials.IncomeStatement.NetIncomeLoss.ptr(),
				prev.Financials.IncomeStatement.NetIncomeLoss.ptr(),
			)
		}
		snaps = append(snaps, m)
	}
	c.cache.SetFinancialMetrics(ticker, snaps)
	return filterMetrics(c.cache.FinancialMetrics(ticker), asOf, limit), nil
}

// CompanyNews returns articles published in [start, asOf], most recent first.
// When the REST endpoint has nothing and scraping is enabled, scraped
// headlines stand in so the sentiment strategy still has a signal to score.
func (c *Client) CompanyNews(ctx context.Context, ticker, asOf, start string) ([]types.CompanyNews, error) {
	if cached := filterNews(c.cache.CompanyNews(ticker), asOf, start); len(cached) > 0 {
		return cached, nil
	}

	ctx, span := trace.StartSpan(ctx, "marketdata.company_news")
	defer span.End()

	q := url.Values{
		"ticker":            {ticker},
		"published_utc.lte": {asOf},
		"limit":             {"50"},
		"order":             {"desc"},
	}
	var resp struct {
		Results []struct {
			PublishedUTC string `json:"published_utc"`
			Title        string `json:"title"`
			ArticleURL   string `json:"article_url"`
			Description  string `json:"description"`
			Publisher    struct {
				Name string `json:"name"`
			} `json:"publisher"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/v2/reference/news", q, &resp); err != nil {
		return nil, err
	}

	items := make([]types.CompanyNews, 0, len(resp.Results))
	for _, r := range resp.Results {
		date := r.PublishedUTC
		if len(date) >= 10 {
			date = date[:10]
		}
		items = append(items, types.CompanyNews{
			Date:        date,
			Title:       r.Title,
			URL:         r.ArticleURL,
			Source:      r.Publisher.Name,
			Description: r.Description,
		})
	}

	if len(items) == 0 && c.scraper != nil {
		scraped, err := c.scraper.Scrape(ctx, ticker, asOf, 20)
		if err != nil {
			logger.Warn(ctx, "News scrape fallback failed", "ticker", ticker, "error", err)
		} else {
			items = scraped
		}
	}

	c.cache.SetCompanyNews(ticker, items)
	return filterNews(c.cache.CompanyNews(ticker), asOf, start), nil
}

// MarketStatus reports whether the exchange is currently open.
func (c *Client) MarketStatus(ctx context.Context) (types.MarketStatus, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.market_status")
	defer span.End()

	var resp struct {
		Market    string `json:"market"`
		Exchanges struct {
			NYSE string `json:"nyse"`
		} `json:"exchanges"`
	}
	if err := c.get(ctx, "/v1/marketstatus/now", nil, &resp); err != nil {
		return types.MarketStatus{}, err
	}
	status := types.MarketStatus{Market: "closed"}
	if resp.Market == "open" || resp.Exchanges.NYSE == "open" {
		status.Market = "open"
	}
	return status, nil
}

// MarketHolidays returns the exchange holiday calendar.
func (c *Client) MarketHolidays(ctx context.Context) ([]types.MarketHoliday, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.market_holidays")
	defer span.End()

	var resp []struct {
		Date string `json:"date"`
		Name string `json:"name"`
	}
	if err := c.get(ctx, "/v1/marketstatus/upcoming", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]types.MarketHoliday, 0, len(resp))
	for _, h := range resp {
		out = append(out, types.MarketHoliday{Date: h.Date, Name: h.Name})
	}
	return out, nil
}

// get performs a rate-limited GET with bounded retry on 429. Exhausting the
// retry budget is a hard failure for this fetch; the calling strategy
// downgrades it to data-unavailable for the ticker.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if q == nil {
		q = url.Values{}
	}
	if key := os.Getenv(c.apiKeyEnv); key != "" {
		q.Set("apiKey", key)
	}
	endpoint := c.baseURL + path + "?" + q.Encode()

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if attempt >= c.maxRetries {
				return fmt.Errorf("rate limited: retry budget exhausted after %d attempts", attempt+1)
			}
			wait := c.backoff * (1 << attempt)
			logger.Warn(ctx, "Provider rate limit hit, backing off",
				"path", path, "attempt", attempt+1, "wait", wait.String())
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		if resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return fmt.Errorf("provider http %d: %s", resp.StatusCode, string(body))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode provider response: %w", err)
		}
		return nil
	}
}

type valueField struct {
	Value *float64 `json:"value"`
}

func (v valueField) ptr() *float64 { return v.Value }

// statementLines is one reporting period's raw line items before any ratios
// are derived from them.
type statementLines struct {
	revenue            *float64
	netIncome          *float64
	operatingIncome    *float64
	currentAssets      *float64
	currentLiabilities *float64
	liabilities        *float64
	equity             *float64
	sharesOutstanding  *float64
	marketCap          *float64
	freeCashFlow       *float64
	operatingCashFlow  *float64
	capitalExpenditure *float64
}

// deriveMetrics computes the ratio set analysts score on from raw statement
// line items. A ratio whose inputs are missing stays nil.
func deriveMetrics(period string, ln statementLines) types.FinancialMetrics {
	m := types.FinancialMetrics{
		ReportPeriod: period,
		MarketCap:    ln.marketCap,
		FreeCashFlow: ln.freeCashFlow,
	}
	if m.FreeCashFlow == nil && ln.operatingCashFlow != nil && ln.capitalExpenditure != nil {
		v := *ln.operatingCashFlow - math.Abs(*ln.capitalExpenditure)
		m.FreeCashFlow = &v
	}
	if ln.revenue != nil && *ln.revenue != 0 {
		if ln.netIncome != nil {
			v := *ln.netIncome / *ln.revenue
			m.NetMargin = &v
		}
		if ln.operatingIncome != nil {
			v := *ln.operatingIncome / *ln.revenue
			m.OperatingMargin = &v
		}
	}
	if ln.currentAssets != nil && ln.currentLiabilities != nil && *ln.currentLiabilities != 0 {
		v := *ln.currentAssets / *ln.currentLiabilities
		m.CurrentRatio = &v
	}
	if ln.equity != nil && *ln.equity != 0 {
		if ln.liabilities != nil {
			v := *ln.liabilities / *ln.equity
			m.DebtToEquity = &v
		}
		if ln.netIncome != nil {
			v := *ln.netIncome / *ln.equity
			m.ReturnOnEquity = &v
		}
	}
	if ln.marketCap != nil && ln.sharesOutstanding != nil && *ln.sharesOutstanding != 0 {
		price := *ln.marketCap / *ln.sharesOutstanding
		if ln.netIncome != nil && *ln.netIncome != 0 {
			v := price / (*ln.netIncome / *ln.sharesOutstanding)
			m.PERatio = &v
		}
		if ln.equity != nil && *ln.equity != 0 {
			v := price / (*ln.equity / *ln.sharesOutstanding)
			m.PBRatio = &v
		}
	}
	return m
}

// growthRate is the period-over-period change relative to the prior
// magnitude, nil when either side is missing or the base is zero.
func growthRate(current, previous *float64) *float64 {
	if current == nil || previous == nil || *previous == 0 {
		return nil
	}
	v := (*current - *previous) / math.Abs(*previous)
	return &v
}

func timeframeFor(period string) string {
	switch period {
	case "annual":
		return "annual"
	case "quarterly":
		return "quarterly"
	default:
		return "ttm"
	}
}

func filterPrices(bars []types.Price, start, end string) []types.Price {
	out := bars[:0:0]
	for _, b := range bars {
		if b.Time >= start && b.Time <= end {
			out = append(out, b)
		}
	}
	return out
}

func filterMetrics(snaps []types.FinancialMetrics, asOf string, limit int) []types.FinancialMetrics {
	out := snaps[:0:0]
	for _, s := range snaps {
		if s.ReportPeriod <= asOf {
			out = append(out, s)
		}
		if len(out) == limit {
			break
		}
	}
	return out
}

func filterNews(items []types.CompanyNews, asOf, start string) []types.CompanyNews {
	out := items[:0:0]
	for _, n := range items {
		if n.Date <= asOf && (start == "" || n.Date >= start) {
			out = append(out, n)
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
