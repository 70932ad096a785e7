package interfaces

import (
	"context"

	"llm-hedge-fund/internal/state"
	"llm-hedge-fund/internal/types"
)

// Decider converts the accumulated signal map plus price/portfolio context
// into one trading decision per ticker. Every ticker in st.Tickers gets a
// decision; a ticker with no signals decides hold with zero confidence.
type Decider interface {
	Decide(ctx context.Context, st *state.State, prices map[string]float64) (map[string]types.Decision, error)
}
