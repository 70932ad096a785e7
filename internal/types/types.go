package types

// SignalKind is the normalized trade direction emitted by an analyst.
type SignalKind string

const (
	SignalBullish SignalKind = "bullish"
	SignalBearish SignalKind = "bearish"
	SignalNeutral SignalKind = "neutral"
)

// Signal is the per-ticker output of one analyst. Confidence is always on the
// 0-100 scale; producers that score internally on [0,1] normalize at this
// boundary. Metrics carries named numeric diagnostics for audit only; the
// decision engine never reads it.
type Signal struct {
	Signal     SignalKind         `json:"signal"`
	Confidence float64            `json:"confidence"`
	Reasoning  string             `json:"reasoning"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// Action is a per-ticker trading decision direction.
type Action string

const (
	ActionBuy   Action = "buy"
	ActionSell  Action = "sell"
	ActionShort Action = "short"
	ActionCover Action = "cover"
	ActionHold  Action = "hold"
)

// ValidAction reports whether a is one of the five decision actions.
func ValidAction(a Action) bool {
	switch a {
	case ActionBuy, ActionSell, ActionShort, ActionCover, ActionHold:
		return true
	}
	return false
}

// Decision is the per-ticker output of the decision engine.
type Decision struct {
	Action     Action  `json:"action"`
	Quantity   int     `json:"quantity"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Portfolio holds the cash balance and open positions for one simulation run.
// Analysts read it; only the decision engine's caller mutates it.
type Portfolio struct {
	Cash      float64        `json:"cash"`
	Positions map[string]int `json:"positions"`
}

// RunResult is the sole output artifact of one simulation run.
type RunResult struct {
	Decisions      map[string]Decision          `json:"decisions"`
	AnalystSignals map[string]map[string]Signal `json:"analyst_signals"`
}

// Price is one daily OHLCV bar. Time is the bar date in YYYY-MM-DD form.
type Price struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
	VWAP   float64 `json:"vwap,omitempty"`
}

// FinancialMetrics is one fundamentals snapshot. Ratios the upstream provider
// could not compute are nil; scoring factors that depend on them are skipped
// rather than defaulted.
type FinancialMetrics struct {
	ReportPeriod    string   `json:"report_period"`
	MarketCap       *float64 `json:"market_cap,omitempty"`
	PERatio         *float64 `json:"pe_ratio,omitempty"`
	PBRatio         *float64 `json:"pb_ratio,omitempty"`
	NetMargin       *float64 `json:"net_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	CurrentRatio    *float64 `json:"current_ratio,omitempty"`
	DebtToEquity    *float64 `json:"debt_to_equity,omitempty"`
	ReturnOnEquity  *float64 `json:"return_on_equity,omitempty"`
	RevenueGrowth   *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth  *float64 `json:"earnings_growth,omitempty"`
	FreeCashFlow    *float64 `json:"free_cash_flow,omitempty"`
}

// CompanyNews is one news item for a ticker. Date is YYYY-MM-DD.
type CompanyNews struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Description string `json:"description,omitempty"`
}

// MarketStatus is the live exchange state reported by the data provider.
type MarketStatus struct {
	Market  string `json:"market"` // "open" or "closed"
	Session string `json:"session,omitempty"`
}

// MarketHoliday is one entry in the exchange holiday calendar.
type MarketHoliday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}
