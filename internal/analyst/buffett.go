package analyst

import (
	"context"
	"fmt"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/registry"
	"llm-hedge-fund/internal/state"
	"llm-hedge-fund/internal/types"
)

// Buffett scores durable profitability: high return on equity, wide operating
// margins, conservative leverage and steady earnings growth.
type Buffett struct {
	provider interfaces.Provider
	cfg      registry.Params
}

// NewBuffett builds the warren_buffett strategy.
func NewBuffett(p interfaces.Provider, cfg registry.Params) interfaces.Analyst {
	return &Buffett{provider: p, cfg: cfg}
}

func (a *Buffett) Name() string { return "warren_buffett" }

func (a *Buffett) Analyze(ctx context.Context, st *state.State) (map[string]types.Signal, error) {
	out := make(map[string]types.Signal, len(st.Tickers))
	for _, ticker := range st.Tickers {
		sig := a.analyzeTicker(ctx, st, ticker)
		showReasoning(ctx, st, a.Name(), ticker, sig)
		out[ticker] = sig
	}
	return out, nil
}

func (a *Buffett) analyzeTicker(ctx context.Context, st *state.State, ticker string) (sig types.Signal) {
	defer func() {
		if r := recover(); r != nil {
			sig = errorSignal("Buffett analysis", fmt.Errorf("%v", r))
		}
	}()

	snaps, err := a.provider.FinancialMetrics(ctx, ticker, st.EndDate, "ttm", 1)
	if err != nil || len(snaps) == 0 {
		return noDataSignal(msgNoMetrics)
	}
	m := snaps[0]

	minROE := a.cfg.Value("min_roe", 0.15)
	minOpMargin := a.cfg.Value("min_operating_margin", 0.20)
	card := newScorecard()

	if m.ReturnOnEquity != nil {
		card.metric("roe", *m.ReturnOnEquity)
		switch {
		case *m.ReturnOnEquity > minROE:
			card.add(0.3, "Strong ROE of %.1f%%", *m.ReturnOnEquity*100)
		case *m.ReturnOnEquity > minROE/2:
			card.add(0.1, "Moderate ROE of %.1f%%", *m.ReturnOnEquity*100)
		default:
			card.add(-0.2, "Weak ROE of %.1f%%", *m.ReturnOnEquity*100)
		}
	}

	if m.OperatingMargin != nil {
		card.metric("operating_margin", *m.OperatingMargin)
		switch {
		case *m.OperatingMargin > minOpMargin:
			card.add(0.3, "Strong operating margin of %.1f%%", *m.OperatingMargin*100)
		case *m.OperatingMargin > minOpMargin/2:
			card.add(0.1, "Moderate operating margin of %.1f%%", *m.OperatingMargin*100)
		default:
			card.add(-0.2, "Weak operating margin of %.1f%%", *m.OperatingMargin*100)
		}
	}

	if m.DebtToEquity != nil {
		card.metric("debt_to_equity", *m.DebtToEquity)
		switch {
		case *m.DebtToEquity < a.cfg.Value("low_debt_to_equity", 0.5):
			card.add(0.2, "Low debt-to-equity ratio of %.1f", *m.DebtToEquity)
		case *m.DebtToEquity > a.cfg.Value("high_debt_to_equity", 1.5):
			card.add(-0.3, "High debt-to-equity ratio of %.1f", *m.DebtToEquity)
		}
	}

	if m.EarningsGrowth != nil {
		card.metric("earnings_growth", *m.EarningsGrowth)
		switch {
		case *m.EarningsGrowth > a.cfg.Value("strong_earnings_growth", 0.15):
			card.add(0.2, "Strong earnings growth of %.1f%%", *m.EarningsGrowth*100)
		case *m.EarningsGrowth < 0:
			card.add(-0.3, "Negative earnings growth of %.1f%%", *m.EarningsGrowth*100)
		}
	}

	return card.signal(
		a.cfg.Value("bearish_cutoff", -0.3),
		a.cfg.Value("bullish_cutoff", 0.3),
		a.cfg.Value("confidence", 80),
		"Insufficient data for Buffett analysis",
	)
}
