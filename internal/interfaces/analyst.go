package interfaces

import (
	"context"

	"llm-hedge-fund/internal/state"
	"llm-hedge-fund/internal/types"
)

// Analyst is one pluggable scoring strategy. Analyze scores the whole ticker
// batch in st and returns a ticker->signal mapping. Each ticker is scored
// independently: a failure on one ticker produces a neutral zero-confidence
// signal for that ticker and never aborts the rest of the batch, so the error
// return is reserved for failures that invalidate the entire call.
type Analyst interface {
	Name() string
	Analyze(ctx context.Context, st *state.State) (map[string]types.Signal, error)
}
