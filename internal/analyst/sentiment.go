package analyst

import (
	"context"
	"fmt"
	"math"
	"time"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/registry"
	"llm-hedge-fund/internal/state"
	"llm-hedge-fund/internal/types"
)

// Sentiment scores news flow: the volume of coverage in the week leading up
// to the as-of date, relative to a baseline weekly article count. All date
// math keys off the simulation's end date so historical runs reproduce
// exactly.
type Sentiment struct {
	provider interfaces.Provider
	cfg      registry.Params
}

// NewSentiment builds the sentiment strategy.
func NewSentiment(p interfaces.Provider, cfg registry.Params) interfaces.Analyst {
	return &Sentiment{provider: p, cfg: cfg}
}

func (a *Sentiment) Name() string { return "sentiment" }

func (a *Sentiment) Analyze(ctx context.Context, st *state.State) (map[string]types.Signal, error) {
	out := make(map[string]types.Signal, len(st.Tickers))
	for _, ticker := range st.Tickers {
		sig := a.analyzeTicker(ctx, st, ticker)
		showReasoning(ctx, st, a.Name(), ticker, sig)
		out[ticker] = sig
	}
	return out, nil
}

func (a *Sentiment) analyzeTicker(ctx context.Context, st *state.State, ticker string) (sig types.Signal) {
	defer func() {
		if r := recover(); r != nil {
			sig = errorSignal("sentiment analysis", fmt.Errorf("%v", r))
		}
	}()

	news, err := a.provider.CompanyNews(ctx, ticker, st.EndDate, st.StartDate)
	if err != nil {
		return noDataSignal("No company news available")
	}

	asOf, perr := time.Parse("2006-01-02", st.EndDate)
	if perr != nil {
		return errorSignal("sentiment analysis", perr)
	}

	lookback := int(a.cfg.Value("lookback_days", 7))
	cutoff := asOf.AddDate(0, 0, -lookback)

	recent := 0
	for _, n := range news {
		d, derr := time.Parse("2006-01-02", n.Date)
		if derr != nil {
			continue
		}
		if !d.Before(cutoff) && !d.After(asOf) {
			recent++
		}
	}

	// No coverage at all scores flat, not bearish: absence of news is not a
	// sell signal.
	score := 0.0
	if len(news) > 0 {
		baseline := a.cfg.Value("baseline_weekly_articles", 5)
		score = (float64(recent) - baseline) / 10
		score = math.Max(-1, math.Min(1, score))
	}

	card := newScorecard()
	card.score = score
	card.metric("recent_articles", float64(recent))
	card.metric("total_articles", float64(len(news)))
	card.reasons = append(card.reasons, fmt.Sprintf("News sentiment score: %.2f", score))

	return card.signal(
		a.cfg.Value("bearish_cutoff", -0.3),
		a.cfg.Value("bullish_cutoff", 0.3),
		a.cfg.Value("confidence", 70),
		"No news flow to score",
	)
}
