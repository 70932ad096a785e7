package interfaces

import (
	"context"

	"llm-hedge-fund/internal/types"
)

// Runner executes exactly one simulation pass. A second Run call on the same
// instance is an error.
type Runner interface {
	Run(ctx context.Context) (*types.RunResult, error)
}
