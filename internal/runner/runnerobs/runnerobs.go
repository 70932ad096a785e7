package runnerobs

import (
	"context"
	"time"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/logger"
	"llm-hedge-fund/internal/trace"
	"llm-hedge-fund/internal/types"
)

type observableRunner struct {
	runner interfaces.Runner
}

var _ interfaces.Runner = (*observableRunner)(nil)

func Wrap(r interfaces.Runner) interfaces.Runner {
	return &observableRunner{
		runner: r,
	}
}

func (or *observableRunner) Run(ctx context.Context) (*types.RunResult, error) {
	ctx, span := trace.StartSpan(ctx, "runner.Run")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting simulation run")

	result, err := or.runner.Run(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Simulation run failed", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Simulation run completed",
		"decisions", len(result.Decisions),
		"analysts", len(result.AnalystSignals),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
