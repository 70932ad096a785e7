package analyst

import (
	"context"
	"fmt"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/logger"
	"llm-hedge-fund/internal/registry"
	"llm-hedge-fund/internal/state"
	"llm-hedge-fund/internal/types"
)

const msgNoMetrics = "No financial metrics available"

// Fundamentals scores profitability, growth, valuation and balance-sheet
// health from the latest fundamentals snapshot.
type Fundamentals struct {
	provider interfaces.Provider
	cfg      registry.Params
}

// NewFundamentals builds the fundamentals strategy.
func NewFundamentals(p interfaces.Provider, cfg registry.Params) interfaces.Analyst {
	return &Fundamentals{provider: p, cfg: cfg}
}

func (a *Fundamentals) Name() string { return "fundamentals" }

func (a *Fundamentals) Analyze(ctx context.Context, st *state.State) (map[string]types.Signal, error) {
	out := make(map[string]types.Signal, len(st.Tickers))
	for _, ticker := range st.Tickers {
		sig := a.analyzeTicker(ctx, st, ticker)
		showReasoning(ctx, st, a.Name(), ticker, sig)
		out[ticker] = sig
	}
	return out, nil
}

func (a *Fundamentals) analyzeTicker(ctx context.Context, st *state.State, ticker string) (sig types.Signal) {
	defer func() {
		if r := recover(); r != nil {
			sig = errorSignal("fundamentals analysis", fmt.Errorf("%v", r))
		}
	}()

	snaps, err := a.provider.FinancialMetrics(ctx, ticker, st.EndDate, "ttm", 1)
	if err != nil || len(snaps) == 0 {
		if err != nil {
			logger.Warn(ctx, "Metrics fetch failed, treating as unavailable", "analyst", a.Name(), "ticker", ticker, "error", err)
		}
		return noDataSignal(msgNoMetrics)
	}
	m := snaps[0]

	card := newScorecard()

	if m.NetMargin != nil {
		card.metric("net_margin", *m.NetMargin)
		switch {
		case *m.NetMargin > a.cfg.Value("strong_net_margin", 0.2):
			card.add(0.3, "Strong net margin of %.1f%%", *m.NetMargin*100)
		case *m.NetMargin > a.cfg.Value("strong_net_margin", 0.2)/2:
			card.add(0.1, "Decent net margin of %.1f%%", *m.NetMargin*100)
		case *m.NetMargin < 0:
			card.add(-0.3, "Negative net margin of %.1f%%", *m.NetMargin*100)
		}
	}

	if m.RevenueGrowth != nil {
		card.metric("revenue_growth", *m.RevenueGrowth)
		switch {
		case *m.RevenueGrowth > a.cfg.Value("strong_revenue_growth", 0.2):
			card.add(0.3, "Strong revenue growth of %.1f%%", *m.RevenueGrowth*100)
		case *m.RevenueGrowth > a.cfg.Value("strong_revenue_growth", 0.2)/2:
			card.add(0.1, "Decent revenue growth of %.1f%%", *m.RevenueGrowth*100)
		case *m.RevenueGrowth < 0:
			card.add(-0.2, "Negative revenue growth of %.1f%%", *m.RevenueGrowth*100)
		}
	}

	if m.PERatio != nil {
		card.metric("pe_ratio", *m.PERatio)
		switch {
		case *m.PERatio < a.cfg.Value("cheap_pe", 15):
			card.add(0.2, "Attractive P/E ratio of %.1f", *m.PERatio)
		case *m.PERatio > a.cfg.Value("rich_pe", 30):
			card.add(-0.2, "High P/E ratio of %.1f", *m.PERatio)
		}
	}

	if m.CurrentRatio != nil {
		card.metric("current_ratio", *m.CurrentRatio)
		switch {
		case *m.CurrentRatio > a.cfg.Value("strong_current_ratio", 2):
			card.add(0.2, "Strong current ratio of %.1f", *m.CurrentRatio)
		case *m.CurrentRatio < 1:
			card.add(-0.3, "Weak current ratio of %.1f", *m.CurrentRatio)
		}
	}

	return card.signal(
		a.cfg.Value("bearish_cutoff", -0.3),
		a.cfg.Value("bullish_cutoff", 0.3),
		a.cfg.Value("confidence", 70),
		"Insufficient data for detailed analysis",
	)
}

// showReasoning logs a signal when the run asked for human-readable
// reasoning.
func showReasoning(ctx context.Context, st *state.State, analyst, ticker string, sig types.Signal) {
	if !st.Metadata.ShowReasoning {
		return
	}
	logger.Info(ctx, "Analyst reasoning",
		"analyst", analyst,
		"ticker", ticker,
		"signal", string(sig.Signal),
		"confidence", sig.Confidence,
		"reasoning", sig.Reasoning,
	)
}
