// Package decision turns collected analyst signals into per-ticker trade
// decisions. Two engines are provided: a deterministic majority vote and an
// LLM-backed portfolio manager that degrades to all-hold when the model
// output cannot be trusted.
package decision

import (
	"context"
	"fmt"
	"math"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/state"
	"llm-hedge-fund/internal/types"
)

// MajorityDecider buys on a strict bullish plurality, sells on a strict
// bearish plurality, and holds otherwise. Quantity scales with conviction,
// the winning bloc's share of all votes, against a per-ticker share ceiling.
type MajorityDecider struct {
	maxPosition int
}

var _ interfaces.Decider = (*MajorityDecider)(nil)

// NewMajority builds a vote-based decider with the given per-ticker share
// ceiling.
func NewMajority(maxPosition int) *MajorityDecider {
	return &MajorityDecider{maxPosition: maxPosition}
}

func (d *MajorityDecider) Decide(ctx context.Context, st *state.State, prices map[string]float64) (map[string]types.Decision, error) {
	out := make(map[string]types.Decision, len(st.Tickers))
	for _, ticker := range st.Tickers {
		out[ticker] = d.decideTicker(ticker, st.SignalsFor(ticker))
	}
	return out, nil
}

func (d *MajorityDecider) decideTicker(ticker string, signals map[string]types.Signal) types.Decision {
	var bullish, bearish, neutral int
	for _, sig := range signals {
		switch sig.Signal {
		case types.SignalBullish:
			bullish++
		case types.SignalBearish:
			bearish++
		default:
			neutral++
		}
	}
	total := bullish + bearish + neutral
	if total == 0 {
		return types.Decision{
			Action:     types.ActionHold,
			Quantity:   0,
			Confidence: 0,
			Reasoning:  "No analyst signals available",
		}
	}

	action := types.ActionHold
	winning := neutral
	switch {
	case bullish > bearish && bullish > neutral:
		action = types.ActionBuy
		winning = bullish
	case bearish > bullish && bearish > neutral:
		action = types.ActionSell
		winning = bearish
	case neutral > bullish && neutral > bearish:
		winning = neutral
	default:
		// Tie between the leading blocs.
		return types.Decision{
			Action:     types.ActionHold,
			Quantity:   0,
			Confidence: 0,
			Reasoning:  fmt.Sprintf("Split vote: %d bullish, %d bearish, %d neutral", bullish, bearish, neutral),
		}
	}

	conviction := float64(winning) / float64(total)
	quantity := 0
	if action == types.ActionBuy || action == types.ActionSell {
		quantity = int(math.Floor(conviction * float64(d.maxPosition)))
	}

	return types.Decision{
		Action:     action,
		Quantity:   quantity,
		Confidence: conviction * 100,
		Reasoning:  fmt.Sprintf("Majority vote: %d bullish, %d bearish, %d neutral", bullish, bearish, neutral),
	}
}
