package runner

import (
	"context"
	"errors"
	"testing"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/registry"
	"llm-hedge-fund/internal/state"
	"llm-hedge-fund/internal/store"
	"llm-hedge-fund/internal/types"
)

type fakeProvider struct {
	prices   map[string][]types.Price
	holidays []types.MarketHoliday
	status   types.MarketStatus
}

func (p *fakeProvider) FinancialMetrics(ctx context.Context, ticker, asOf, period string, limit int) ([]types.FinancialMetrics, error) {
	return nil, nil
}

func (p *fakeProvider) Prices(ctx context.Context, ticker, start, end string) ([]types.Price, error) {
	return p.prices[ticker], nil
}

func (p *fakeProvider) CompanyNews(ctx context.Context, ticker, asOf, start string) ([]types.CompanyNews, error) {
	return nil, nil
}

func (p *fakeProvider) MarketStatus(ctx context.Context) (types.MarketStatus, error) {
	return p.status, nil
}

func (p *fakeProvider) MarketHolidays(ctx context.Context) ([]types.MarketHoliday, error) {
	return p.holidays, nil
}

type stubAnalyst struct {
	name string
	kind types.SignalKind
	err  error
}

func (a *stubAnalyst) Name() string { return a.name }

func (a *stubAnalyst) Analyze(ctx context.Context, st *state.State) (map[string]types.Signal, error) {
	if a.err != nil {
		return nil, a.err
	}
	out := map[string]types.Signal{}
	for _, ticker := range st.Tickers {
		out[ticker] = types.Signal{Signal: a.kind, Confidence: 75, Reasoning: "stub"}
	}
	return out, nil
}

type captureDecider struct {
	prices map[string]float64
}

func (d *captureDecider) Decide(ctx context.Context, st *state.State, prices map[string]float64) (map[string]types.Decision, error) {
	d.prices = prices
	out := map[string]types.Decision{}
	for _, ticker := range st.Tickers {
		out[ticker] = types.Decision{Action: types.ActionHold, Reasoning: "captured"}
	}
	return out, nil
}

func registryWith(analysts ...*stubAnalyst) *registry.Registry {
	reg := registry.New()
	for _, a := range analysts {
		a := a
		reg.Register(registry.Registration{
			Name: a.name,
			New: func(cfg registry.Params) interfaces.Analyst {
				return a
			},
		})
	}
	return reg
}

func runConfig(analysts ...string) *store.Config {
	cfg := &store.Config{}
	cfg.Analysts = analysts
	cfg.Decision.Mode = "MAJORITY"
	cfg.Decision.MaxPosition = 100
	return cfg
}

func runnerState(endDate string, tickers ...string) *state.State {
	return state.New(tickers, "2023-06-30", endDate, types.Portfolio{Cash: 1_000_000}, state.Metadata{})
}

func TestRunCollectsSignalsAndDecides(t *testing.T) {
	provider := &fakeProvider{prices: map[string][]types.Price{
		"AAPL": {{Time: "2024-06-28", Close: 210.5}},
	}}
	reg := registryWith(
		&stubAnalyst{name: "bull", kind: types.SignalBullish},
		&stubAnalyst{name: "bear", kind: types.SignalBearish},
	)
	decider := &captureDecider{}
	st := runnerState("2024-06-28", "AAPL")

	r := New(runConfig("bull", "bear"), reg, provider, decider, st)
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Decisions) != 1 {
		t.Fatalf("decisions = %d, want 1", len(result.Decisions))
	}
	if result.AnalystSignals["bull"]["AAPL"].Signal != types.SignalBullish {
		t.Errorf("bull signal missing from result: %+v", result.AnalystSignals)
	}
	if result.AnalystSignals["bear"]["AAPL"].Signal != types.SignalBearish {
		t.Errorf("bear signal missing from result: %+v", result.AnalystSignals)
	}
	if decider.prices["AAPL"] != 210.5 {
		t.Errorf("decider price = %.2f, want latest close 210.5", decider.prices["AAPL"])
	}
}

func TestRunSkipsMarketHoliday(t *testing.T) {
	provider := &fakeProvider{holidays: []types.MarketHoliday{
		{Date: "2024-07-04", Name: "Independence Day"},
	}}
	reg := registryWith(&stubAnalyst{name: "bull", kind: types.SignalBullish})
	st := runnerState("2024-07-04", "AAPL")

	r := New(runConfig("bull"), reg, provider, &captureDecider{}, st)
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Decisions) != 0 || len(result.AnalystSignals) != 0 {
		t.Errorf("holiday run should be empty, got %+v", result)
	}
}

func TestRunSkipsWeekend(t *testing.T) {
	provider := &fakeProvider{}
	reg := registryWith(&stubAnalyst{name: "bull", kind: types.SignalBullish})
	st := runnerState("2024-06-29", "AAPL") // Saturday

	r := New(runConfig("bull"), reg, provider, &captureDecider{}, st)
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Decisions) != 0 {
		t.Errorf("weekend run should be empty, got %+v", result)
	}
}

func TestRunUnknownAnalystIsHardError(t *testing.T) {
	provider := &fakeProvider{}
	st := runnerState("2024-06-28", "AAPL")

	r := New(runConfig("nobody"), registry.New(), provider, &captureDecider{}, st)
	if _, err := r.Run(context.Background()); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRunFailingAnalystIsSkipped(t *testing.T) {
	provider := &fakeProvider{}
	reg := registryWith(
		&stubAnalyst{name: "broken", err: errors.New("exploded")},
		&stubAnalyst{name: "bull", kind: types.SignalBullish},
	)
	st := runnerState("2024-06-28", "AAPL")

	r := New(runConfig("broken", "bull"), reg, provider, &captureDecider{}, st)
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := result.AnalystSignals["broken"]; ok {
		t.Error("broken analyst should contribute no signals")
	}
	if result.AnalystSignals["bull"]["AAPL"].Signal != types.SignalBullish {
		t.Error("healthy analyst should still run after a sibling failure")
	}
}

func TestRunIsSingleUse(t *testing.T) {
	provider := &fakeProvider{}
	reg := registryWith(&stubAnalyst{name: "bull", kind: types.SignalBullish})
	st := runnerState("2024-06-28", "AAPL")

	r := New(runConfig("bull"), reg, provider, &captureDecider{}, st)
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("second Run should error")
	}
}
