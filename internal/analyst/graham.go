package analyst

import (
	"context"
	"fmt"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/registry"
	"llm-hedge-fund/internal/state"
	"llm-hedge-fund/internal/types"
)

// Graham scores defensive value: adequate size, strong financial condition,
// earnings stability, cash generation and a cheap price relative to earnings
// and book.
type Graham struct {
	provider interfaces.Provider
	cfg      registry.Params
}

// NewGraham builds the ben_graham strategy.
func NewGraham(p interfaces.Provider, cfg registry.Params) interfaces.Analyst {
	return &Graham{provider: p, cfg: cfg}
}

func (a *Graham) Name() string { return "ben_graham" }

func (a *Graham) Analyze(ctx context.Context, st *state.State) (map[string]types.Signal, error) {
	out := make(map[string]types.Signal, len(st.Tickers))
	for _, ticker := range st.Tickers {
		sig := a.analyzeTicker(ctx, st, ticker)
		showReasoning(ctx, st, a.Name(), ticker, sig)
		out[ticker] = sig
	}
	return out, nil
}

func (a *Graham) analyzeTicker(ctx context.Context, st *state.State, ticker string) (sig types.Signal) {
	defer func() {
		if r := recover(); r != nil {
			sig = errorSignal("Graham analysis", fmt.Errorf("%v", r))
		}
	}()

	snaps, err := a.provider.FinancialMetrics(ctx, ticker, st.EndDate, "ttm", 1)
	if err != nil || len(snaps) == 0 {
		return noDataSignal(msgNoMetrics)
	}
	m := snaps[0]

	card := newScorecard()

	if m.MarketCap != nil {
		card.metric("market_cap", *m.MarketCap)
		switch {
		case *m.MarketCap > a.cfg.Value("large_cap", 2e9):
			card.add(0.2, "Large market cap of $%.1fB", *m.MarketCap/1e9)
		case *m.MarketCap < a.cfg.Value("small_cap", 100e6):
			card.add(-0.2, "Small market cap of $%.1fM", *m.MarketCap/1e6)
		}
	}

	if m.CurrentRatio != nil {
		card.metric("current_ratio", *m.CurrentRatio)
		switch {
		case *m.CurrentRatio > a.cfg.Value("min_current_ratio", 2.0):
			card.add(0.3, "Strong current ratio of %.1f", *m.CurrentRatio)
		case *m.CurrentRatio < a.cfg.Value("weak_current_ratio", 1.5):
			card.add(-0.3, "Weak current ratio of %.1f", *m.CurrentRatio)
		}
	}

	if m.EarningsGrowth != nil {
		card.metric("earnings_growth", *m.EarningsGrowth)
		switch {
		case *m.EarningsGrowth > a.cfg.Value("stable_earnings_growth", 0.07):
			card.add(0.2, "Stable earnings growth of %.1f%%", *m.EarningsGrowth*100)
		case *m.EarningsGrowth < 0:
			card.add(-0.2, "Negative earnings growth of %.1f%%", *m.EarningsGrowth*100)
		}
	}

	if m.FreeCashFlow != nil && m.MarketCap != nil && *m.MarketCap > 0 {
		fcfYield := *m.FreeCashFlow / *m.MarketCap
		card.metric("fcf_yield", fcfYield)
		switch {
		case fcfYield > a.cfg.Value("min_fcf_yield", 0.06):
			card.add(0.2, "Strong free cash flow yield of %.1f%%", fcfYield*100)
		case fcfYield < 0:
			card.add(-0.2, "Negative free cash flow yield")
		}
	}

	if m.PERatio != nil {
		card.metric("pe_ratio", *m.PERatio)
		switch {
		case *m.PERatio < a.cfg.Value("cheap_pe", 15):
			card.add(0.2, "Low P/E ratio of %.1f", *m.PERatio)
		case *m.PERatio > a.cfg.Value("rich_pe", 25):
			card.add(-0.2, "High P/E ratio of %.1f", *m.PERatio)
		}
	}

	if m.PBRatio != nil {
		card.metric("pb_ratio", *m.PBRatio)
		switch {
		case *m.PBRatio < a.cfg.Value("cheap_pb", 1.5):
			card.add(0.2, "Low P/B ratio of %.1f", *m.PBRatio)
		case *m.PBRatio > a.cfg.Value("rich_pb", 3):
			card.add(-0.2, "High P/B ratio of %.1f", *m.PBRatio)
		}
	}

	return card.signal(
		a.cfg.Value("bearish_cutoff", -0.3),
		a.cfg.Value("bullish_cutoff", 0.3),
		a.cfg.Value("confidence", 80),
		"Insufficient data for Graham analysis",
	)
}
