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

const minTechnicalBars = 60

// Technicals blends four price-derived sub-scores: trend (fast vs slow moving
// average), momentum (RSI), mean reversion (position within the Bollinger
// band) and realized volatility. Unlike the fundamental strategies it derives
// confidence from how far the blended score sits from the neutral band.
type Technicals struct {
	provider interfaces.Provider
	cfg      registry.Params
}

// NewTechnicals builds the technicals strategy.
func NewTechnicals(p interfaces.Provider, cfg registry.Params) interfaces.Analyst {
	return &Technicals{provider: p, cfg: cfg}
}

func (a *Technicals) Name() string { return "technicals" }

func (a *Technicals) Analyze(ctx context.Context, st *state.State) (map[string]types.Signal, error) {
	out := make(map[string]types.Signal, len(st.Tickers))
	for _, ticker := range st.Tickers {
		sig := a.analyzeTicker(ctx, st, ticker)
		showReasoning(ctx, st, a.Name(), ticker, sig)
		out[ticker] = sig
	}
	return out, nil
}

func (a *Technicals) analyzeTicker(ctx context.Context, st *state.State, ticker string) (sig types.Signal) {
	defer func() {
		if r := recover(); r != nil {
			sig = errorSignal("technical analysis", fmt.Errorf("%v", r))
		}
	}()

	bars, err := a.provider.Prices(ctx, ticker, st.StartDate, st.EndDate)
	if err != nil || len(bars) < minTechnicalBars {
		return noDataSignal("Insufficient price history")
	}
	closes := closesChronological(bars)
	price := closes[len(closes)-1]

	fast := int(a.cfg.Value("fast_sma", 20))
	slow := int(a.cfg.Value("slow_sma", 50))
	rsiPeriod := int(a.cfg.Value("rsi_period", 14))
	bandPeriod := int(a.cfg.Value("band_period", 20))

	smaFast := ta.SMA(closes, fast)
	smaSlow := ta.SMA(closes, slow)
	trend := 0.0
	switch {
	case price > smaFast && smaFast > smaSlow:
		trend = 1
	case price < smaFast && smaFast < smaSlow:
		trend = -1
	case smaFast > smaSlow:
		trend = 0.5
	case smaFast < smaSlow:
		trend = -0.5
	}

	rsi := ta.RSI(closes, rsiPeriod)
	momentum := clamp((rsi-50)/50, -1, 1)

	mid, up, low := ta.Bollinger(closes, bandPeriod, a.cfg.Value("band_width", 2))
	meanReversion := 0.0
	if halfBand := (up - low) / 2; halfBand > 0 {
		meanReversion = clamp(-(price-mid)/halfBand, -1, 1)
	}

	returns := ta.DailyReturns(closes)
	vol := stat.StdDev(returns, nil) * math.Sqrt(252)
	volScore := 0.0
	switch {
	case vol < a.cfg.Value("low_volatility", 0.2):
		volScore = 0.5
	case vol > a.cfg.Value("high_volatility", 0.4):
		volScore = -0.5
	}

	score := trend*a.cfg.Value("weight_trend", 0.25) +
		momentum*a.cfg.Value("weight_momentum", 0.25) +
		meanReversion*a.cfg.Value("weight_mean_reversion", 0.20) +
		volScore*a.cfg.Value("weight_volatility", 0.15)

	bearCut := a.cfg.Value("bearish_cutoff", -0.5)
	bullCut := a.cfg.Value("bullish_cutoff", 0.5)

	reasoning := strings.Join([]string{
		fmt.Sprintf("Trend: %.2f", trend),
		fmt.Sprintf("Momentum (RSI %.1f): %.2f", rsi, momentum),
		fmt.Sprintf("Mean reversion: %.2f", meanReversion),
		fmt.Sprintf("Volatility (%.1f%% annualized): %.2f", vol*100, volScore),
		fmt.Sprintf("Combined score: %.2f", score),
	}, "\n")

	return types.Signal{
		Signal:     kindFromScore(score, bearCut, bullCut),
		Confidence: confidenceFromDistance(score, bearCut, bullCut),
		Reasoning:  reasoning,
		Metrics: map[string]float64{
			"score":          score,
			"trend":          trend,
			"momentum":       momentum,
			"mean_reversion": meanReversion,
			"volatility":     vol,
			"rsi":            rsi,
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
