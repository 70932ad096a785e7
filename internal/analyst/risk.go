package analyst

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/registry"
	"llm-hedge-fund/internal/state"
	"llm-hedge-fund/internal/ta"
	"llm-hedge-fund/internal/types"
)

// RiskManager sizes positions from realized volatility. It annualizes the
// standard deviation of daily returns, bands the result into low/medium/high
// risk, scales the per-ticker capital allocation by the band multiplier and
// widens the stop to at least the volatility estimate.
type RiskManager struct {
	provider interfaces.Provider
	cfg      registry.Params
}

// NewRiskManager builds the risk_manager strategy.
func NewRiskManager(p interfaces.Provider, cfg registry.Params) interfaces.Analyst {
	return &RiskManager{provider: p, cfg: cfg}
}

func (a *RiskManager) Name() string { return "risk_manager" }

func (a *RiskManager) Analyze(ctx context.Context, st *state.State) (map[string]types.Signal, error) {
	out := make(map[string]types.Signal, len(st.Tickers))
	for _, ticker := range st.Tickers {
		sig := a.analyzeTicker(ctx, st, ticker)
		showReasoning(ctx, st, a.Name(), ticker, sig)
		out[ticker] = sig
	}
	return out, nil
}

func (a *RiskManager) analyzeTicker(ctx context.Context, st *state.State, ticker string) (sig types.Signal) {
	defer func() {
		if r := recover(); r != nil {
			sig = errorSignal("risk analysis", fmt.Errorf("%v", r))
		}
	}()

	bars, err := a.provider.Prices(ctx, ticker, st.StartDate, st.EndDate)
	if err != nil || len(bars) < 2 {
		return noDataSignal("No price data available for risk analysis")
	}
	returns := ta.DailyReturns(closesChronological(bars))
	if len(returns) == 0 {
		return noDataSignal("No price data available for risk analysis")
	}
	vol := stat.StdDev(returns, nil) * math.Sqrt(252)

	maxPos := a.cfg.Value("max_position_size", 100_000)
	base := maxPos
	if perTicker := st.Portfolio.Cash / float64(len(st.Tickers)); perTicker < base {
		base = perTicker
	}

	riskLevel := "low"
	positionSize := base
	switch {
	case vol > a.cfg.Value("high_volatility", 0.4):
		riskLevel = "high"
		positionSize = base * a.cfg.Value("high_multiplier", 0.5)
	case vol > a.cfg.Value("medium_volatility", 0.2):
		riskLevel = "medium"
		positionSize = base * a.cfg.Value("medium_multiplier", 0.75)
	}
	stopLoss := math.Max(a.cfg.Value("stop_loss", 0.15), vol)

	kind := types.SignalNeutral
	switch {
	case riskLevel == "low" && positionSize >= 0.8*maxPos:
		kind = types.SignalBullish
	case riskLevel == "high" && positionSize <= 0.5*maxPos:
		kind = types.SignalBearish
	}

	reasoning := strings.Join([]string{
		fmt.Sprintf("Risk Level: %s", riskLevel),
		fmt.Sprintf("Annual Volatility: %.1f%%", vol*100),
		fmt.Sprintf("Recommended Position Size: $%.2f", positionSize),
		fmt.Sprintf("Stop Loss: %.1f%%", stopLoss*100),
	}, "\n")

	return types.Signal{
		Signal:     kind,
		Confidence: a.cfg.Value("confidence", 80),
		Reasoning:  reasoning,
		Metrics: map[string]float64{
			"volatility":    vol,
			"position_size": positionSize,
			"stop_loss":     stopLoss,
		},
	}
}
