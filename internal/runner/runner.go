// Package runner orchestrates one simulation pass: market gating, analyst
// fan-out, signal collection and the final decision step.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"llm-hedge-fund/internal/analyst/analystobs"
	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/logger"
	"llm-hedge-fund/internal/registry"
	"llm-hedge-fund/internal/state"
	"llm-hedge-fund/internal/store"
	"llm-hedge-fund/internal/types"
)

// Runner drives a single pass over the configured analysts. It is single-use:
// each pass gets a fresh Runner with a fresh State.
type Runner struct {
	cfg      *store.Config
	reg      *registry.Registry
	provider interfaces.Provider
	decider  interfaces.Decider
	st       *state.State

	mu  sync.Mutex
	ran bool
}

var _ interfaces.Runner = (*Runner)(nil)

func New(cfg *store.Config, reg *registry.Registry, provider interfaces.Provider, decider interfaces.Decider, st *state.State) *Runner {
	return &Runner{
		cfg:      cfg,
		reg:      reg,
		provider: provider,
		decider:  decider,
		st:       st,
	}
}

func (r *Runner) Run(ctx context.Context) (*types.RunResult, error) {
	r.mu.Lock()
	if r.ran {
		r.mu.Unlock()
		return nil, errors.New("runner already ran: build a fresh runner per pass")
	}
	r.ran = true
	r.mu.Unlock()

	if skip, reason := r.marketClosed(ctx); skip {
		logger.Info(ctx, "Market closed for the simulation date, skipping run",
			"end_date", r.st.EndDate,
			"reason", reason,
		)
		return emptyResult(), nil
	}

	if err := r.runAnalysts(ctx); err != nil {
		return nil, err
	}

	prices := r.currentPrices(ctx)
	decisions, err := r.decider.Decide(ctx, r.st, prices)
	if err != nil {
		return nil, fmt.Errorf("decision step: %w", err)
	}

	return &types.RunResult{
		Decisions:      decisions,
		AnalystSignals: r.st.Signals(),
	}, nil
}

// marketClosed checks whether the simulation date can trade: exchange
// holidays and weekends are checked against the end date itself, and the
// live market session is consulted only when the end date is today, so
// historical runs never depend on present-time market hours.
func (r *Runner) marketClosed(ctx context.Context) (bool, string) {
	holidays, err := r.provider.MarketHolidays(ctx)
	if err != nil {
		logger.Warn(ctx, "Holiday calendar unavailable, continuing", "error", err)
	}
	for _, h := range holidays {
		if h.Date == r.st.EndDate {
			return true, fmt.Sprintf("market holiday: %s", h.Name)
		}
	}

	asOf, err := time.Parse("2006-01-02", r.st.EndDate)
	if err == nil {
		if wd := asOf.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return true, "weekend"
		}
	}

	if r.st.EndDate == time.Now().Format("2006-01-02") {
		status, err := r.provider.MarketStatus(ctx)
		if err != nil {
			logger.Warn(ctx, "Market status unavailable, continuing", "error", err)
		} else if status.Market == "closed" {
			return true, "market session closed"
		}
	}
	return false, ""
}

// runAnalysts creates and runs every configured analyst. An unknown analyst
// name or bad parameter override is a hard configuration error; an Analyze
// failure is logged and skipped so one broken strategy cannot sink the run.
func (r *Runner) runAnalysts(ctx context.Context) error {
	for _, name := range r.cfg.Analysts {
		a, err := r.reg.Create(name, registry.Params(r.cfg.AnalystParams[name]))
		if err != nil {
			return fmt.Errorf("create analyst: %w", err)
		}
		a = analystobs.Wrap(a)

		signals, err := a.Analyze(ctx, r.st)
		if err != nil {
			logger.ErrorWithErr(ctx, "Analyst failed, skipping", err, "analyst", name)
			continue
		}
		r.st.SetSignals(name, signals)
	}
	return nil
}

// currentPrices resolves the latest close inside the simulation window for
// each ticker. Missing data leaves the ticker out of the map.
func (r *Runner) currentPrices(ctx context.Context) map[string]float64 {
	prices := make(map[string]float64, len(r.st.Tickers))
	for _, ticker := range r.st.Tickers {
		bars, err := r.provider.Prices(ctx, ticker, r.st.StartDate, r.st.EndDate)
		if err != nil || len(bars) == 0 {
			logger.Warn(ctx, "No current price available", "ticker", ticker, "error", err)
			continue
		}
		prices[ticker] = bars[0].Close
	}
	return prices
}

func emptyResult() *types.RunResult {
	return &types.RunResult{
		Decisions:      map[string]types.Decision{},
		AnalystSignals: map[string]map[string]types.Signal{},
	}
}
