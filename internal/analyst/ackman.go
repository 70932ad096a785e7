package analyst

import (
	"context"
	"fmt"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/registry"
	"llm-hedge-fund/internal/state"
	"llm-hedge-fund/internal/types"
)

// Ackman scores concentrated quality: free-cash-flow yield, durable revenue
// growth, operating leverage, market position and capital allocation.
type Ackman struct {
	provider interfaces.Provider
	cfg      registry.Params
}

// NewAckman builds the bill_ackman strategy.
func NewAckman(p interfaces.Provider, cfg registry.Params) interfaces.Analyst {
	return &Ackman{provider: p, cfg: cfg}
}

func (a *Ackman) Name() string { return "bill_ackman" }

func (a *Ackman) Analyze(ctx context.Context, st *state.State) (map[string]types.Signal, error) {
	out := make(map[string]types.Signal, len(st.Tickers))
	for _, ticker := range st.Tickers {
		sig := a.analyzeTicker(ctx, st, ticker)
		showReasoning(ctx, st, a.Name(), ticker, sig)
		out[ticker] = sig
	}
	return out, nil
}

func (a *Ackman) analyzeTicker(ctx context.Context, st *state.State, ticker string) (sig types.Signal) {
	defer func() {
		if r := recover(); r != nil {
			sig = errorSignal("Ackman analysis", fmt.Errorf("%v", r))
		}
	}()

	snaps, err := a.provider.FinancialMetrics(ctx, ticker, st.EndDate, "ttm", 1)
	if err != nil || len(snaps) == 0 {
		return noDataSignal(msgNoMetrics)
	}
	m := snaps[0]

	minFCFYield := a.cfg.Value("min_fcf_yield", 0.05)
	card := newScorecard()

	if m.FreeCashFlow != nil && m.MarketCap != nil && *m.MarketCap > 0 {
		fcfYield := *m.FreeCashFlow / *m.MarketCap
		card.metric("fcf_yield", fcfYield)
		switch {
		case fcfYield > minFCFYield:
			card.add(0.3, "Strong free cash flow yield of %.1f%%", fcfYield*100)
		case fcfYield > minFCFYield/2:
			card.add(0.1, "Moderate free cash flow yield of %.1f%%", fcfYield*100)
		case fcfYield < 0:
			card.add(-0.3, "Negative free cash flow yield")
		}
	}

	if m.RevenueGrowth != nil {
		card.metric("revenue_growth", *m.RevenueGrowth)
		minGrowth := a.cfg.Value("min_revenue_growth", 0.10)
		switch {
		case *m.RevenueGrowth > minGrowth:
			card.add(0.3, "Strong revenue growth of %.1f%%", *m.RevenueGrowth*100)
		case *m.RevenueGrowth > minGrowth/2:
			card.add(0.1, "Moderate revenue growth of %.1f%%", *m.RevenueGrowth*100)
		case *m.RevenueGrowth < 0:
			card.add(-0.2, "Negative revenue growth of %.1f%%", *m.RevenueGrowth*100)
		}
	}

	if m.OperatingMargin != nil {
		card.metric("operating_margin", *m.OperatingMargin)
		switch {
		case *m.OperatingMargin > a.cfg.Value("strong_operating_margin", 0.20):
			card.add(0.2, "Strong operating margin of %.1f%%", *m.OperatingMargin*100)
		case *m.OperatingMargin < 0:
			card.add(-0.2, "Negative operating margin of %.1f%%", *m.OperatingMargin*100)
		}
	}

	if m.MarketCap != nil {
		card.metric("market_cap", *m.MarketCap)
		switch {
		case *m.MarketCap > a.cfg.Value("strong_market_cap", 10e9):
			card.add(0.2, "Strong market position with $%.1fB market cap", *m.MarketCap/1e9)
		case *m.MarketCap < a.cfg.Value("weak_market_cap", 1e9):
			card.add(-0.1, "Small market position with $%.1fB market cap", *m.MarketCap/1e9)
		}
	}

	if m.ReturnOnEquity != nil {
		card.metric("roe", *m.ReturnOnEquity)
		switch {
		case *m.ReturnOnEquity > a.cfg.Value("min_roe", 0.15):
			card.add(0.2, "Strong capital allocation with %.1f%% ROE", *m.ReturnOnEquity*100)
		case *m.ReturnOnEquity < 0:
			card.add(-0.2, "Poor capital allocation with %.1f%% ROE", *m.ReturnOnEquity*100)
		}
	}

	return card.signal(
		a.cfg.Value("bearish_cutoff", -0.3),
		a.cfg.Value("bullish_cutoff", 0.3),
		a.cfg.Value("confidence", 80),
		"Insufficient data for Ackman analysis",
	)
}
