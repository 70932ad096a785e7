// Package analyst holds the scoring strategies. Every strategy scores each
// ticker independently by summing weighted factor contributions on a
// scorecard, then maps the total through per-strategy cut-points. Factors
// whose inputs are missing contribute nothing; unexpected failures downgrade
// to a neutral zero-confidence signal for that ticker only.
package analyst

import (
	"fmt"
	"math"
	"strings"

	"llm-hedge-fund/internal/types"
)

// scorecard accumulates factor contributions and audit metrics for one
// ticker.
type scorecard struct {
	score   float64
	reasons []string
	metrics map[string]float64
}

func newScorecard() *scorecard {
	return &scorecard{metrics: map[string]float64{}}
}

func (c *scorecard) add(points float64, format string, args ...any) {
	c.score += points
	c.reasons = append(c.reasons, fmt.Sprintf(format, args...))
}

func (c *scorecard) metric(name string, v float64) {
	c.metrics[name] = v
}

// signal maps the accumulated score through the strategy's cut-points.
// Scores strictly above bullCut are bullish, strictly below bearCut bearish,
// otherwise neutral.
func (c *scorecard) signal(bearCut, bullCut, confidence float64, fallback string) types.Signal {
	c.metrics["score"] = c.score
	reasoning := fallback
	if len(c.reasons) > 0 {
		reasoning = strings.Join(c.reasons, "\n")
	}
	return types.Signal{
		Signal:     kindFromScore(c.score, bearCut, bullCut),
		Confidence: confidence,
		Reasoning:  reasoning,
		Metrics:    c.metrics,
	}
}

func kindFromScore(score, bearCut, bullCut float64) types.SignalKind {
	switch {
	case score > bullCut:
		return types.SignalBullish
	case score < bearCut:
		return types.SignalBearish
	default:
		return types.SignalNeutral
	}
}

// confidenceFromDistance derives confidence from the score's distance to the
// midpoint of the neutral band, on the canonical 0-100 scale. Used by
// strategies that trust extreme scores more than marginal ones; the rest
// carry a fixed per-strategy confidence.
func confidenceFromDistance(score, bearCut, bullCut float64) float64 {
	half := (bullCut - bearCut) / 2
	if half <= 0 {
		return 0
	}
	mid := (bullCut + bearCut) / 2
	return math.Min(100, math.Abs(score-mid)/half*100)
}

// errorSignal downgrades an unexpected per-ticker failure to a neutral
// zero-confidence signal carrying the error text.
func errorSignal(context string, err error) types.Signal {
	return types.Signal{
		Signal:     types.SignalNeutral,
		Confidence: 0,
		Reasoning:  fmt.Sprintf("Error in %s: %v", context, err),
	}
}

// noDataSignal marks a ticker the upstream provider had no data for. Not an
// error: the run continues and the decision engine sees a neutral vote.
func noDataSignal(msg string) types.Signal {
	return types.Signal{
		Signal:     types.SignalNeutral,
		Confidence: 0,
		Reasoning:  msg,
	}
}

// closesChronological extracts close prices oldest-first from bars that the
// provider returns most recent first.
func closesChronological(bars []types.Price) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[len(bars)-1-i] = b.Close
	}
	return out
}
