package analystobs

import (
	"context"
	"time"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/logger"
	"llm-hedge-fund/internal/state"
	"llm-hedge-fund/internal/trace"
	"llm-hedge-fund/internal/types"
)

type observableAnalyst struct {
	analyst interfaces.Analyst
}

var _ interfaces.Analyst = (*observableAnalyst)(nil)

func Wrap(a interfaces.Analyst) interfaces.Analyst {
	return &observableAnalyst{
		analyst: a,
	}
}

func (oa *observableAnalyst) Name() string {
	return oa.analyst.Name()
}

func (oa *observableAnalyst) Analyze(ctx context.Context, st *state.State) (map[string]types.Signal, error) {
	ctx, span := trace.StartSpan(ctx, "analyst.Analyze")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting analyst pass",
		"analyst", oa.analyst.Name(),
		"tickers", len(st.Tickers),
	)

	signals, err := oa.analyst.Analyze(ctx, st)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Analyst pass failed", err,
			"analyst", oa.analyst.Name(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Analyst pass completed",
		"analyst", oa.analyst.Name(),
		"signals", len(signals),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return signals, nil
}
