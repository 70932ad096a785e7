package analyst

import (
	"context"
	"testing"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/registry"
	"llm-hedge-fund/internal/types"
)

func weakMetrics() []types.FinancialMetrics {
	return []types.FinancialMetrics{{
		ReportPeriod:    "2024-03-31",
		NetMargin:       fptr(-0.10),
		RevenueGrowth:   fptr(-0.20),
		PERatio:         fptr(50),
		CurrentRatio:    fptr(0.8),
		OperatingMargin: fptr(-0.02),
		ReturnOnEquity:  fptr(-0.05),
		DebtToEquity:    fptr(2.0),
		EarningsGrowth:  fptr(-0.30),
		MarketCap:       fptr(50e6),
		PBRatio:         fptr(5),
		FreeCashFlow:    fptr(-1e6),
	}}
}

func TestPersonaDirections(t *testing.T) {
	cases := []struct {
		name string
		make func(interfaces.Provider) interfaces.Analyst
	}{
		{"warren_buffett", func(p interfaces.Provider) interfaces.Analyst { return NewBuffett(p, registry.Params{}) }},
		{"ben_graham", func(p interfaces.Provider) interfaces.Analyst { return NewGraham(p, registry.Params{}) }},
		{"bill_ackman", func(p interfaces.Provider) interfaces.Analyst { return NewAckman(p, registry.Params{}) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newFakeProvider()
			p.metrics["STRONG"] = strongMetrics()
			p.metrics["WEAK"] = weakMetrics()
			a := tc.make(p)

			if a.Name() != tc.name {
				t.Errorf("Name() = %q, want %q", a.Name(), tc.name)
			}

			sigs, err := a.Analyze(context.Background(), testState("STRONG", "WEAK"))
			if err != nil {
				t.Fatal(err)
			}
			if got := sigs["STRONG"]; got.Signal != types.SignalBullish {
				t.Errorf("strong book scored %s: %s", got.Signal, got.Reasoning)
			}
			if got := sigs["WEAK"]; got.Signal != types.SignalBearish {
				t.Errorf("weak book scored %s: %s", got.Signal, got.Reasoning)
			}
			if got := sigs["STRONG"]; got.Confidence != 80 {
				t.Errorf("confidence = %.1f, want 80", got.Confidence)
			}
		})
	}
}

func TestPersonasSkipMissingFactors(t *testing.T) {
	p := newFakeProvider()
	// Only ROE present: Buffett scores it, everything else contributes zero.
	p.metrics["PARTIAL"] = []types.FinancialMetrics{{
		ReportPeriod:   "2024-03-31",
		ReturnOnEquity: fptr(0.22),
	}}
	a := NewBuffett(p, registry.Params{})

	sigs, err := a.Analyze(context.Background(), testState("PARTIAL"))
	if err != nil {
		t.Fatal(err)
	}
	sig := sigs["PARTIAL"]
	if sig.Signal != types.SignalNeutral {
		t.Errorf("single positive factor should stay neutral, got %s", sig.Signal)
	}
	if sig.Metrics["score"] != 0.3 {
		t.Errorf("score = %.2f, want 0.3 from ROE alone", sig.Metrics["score"])
	}
}

func TestGrahamWeakCurrentRatioTunable(t *testing.T) {
	p := newFakeProvider()
	// 1.6 sits between the default weak (1.5) and strong (2.0) cuts.
	p.metrics["MID"] = []types.FinancialMetrics{{
		ReportPeriod: "2024-03-31",
		CurrentRatio: fptr(1.6),
	}}

	sigs, err := NewGraham(p, registry.Params{}).Analyze(context.Background(), testState("MID"))
	if err != nil {
		t.Fatal(err)
	}
	if score := sigs["MID"].Metrics["score"]; score != 0 {
		t.Errorf("default cuts scored %.2f, want 0 for a middling ratio", score)
	}

	sigs, err = NewGraham(p, registry.Params{"weak_current_ratio": 1.8}).Analyze(context.Background(), testState("MID"))
	if err != nil {
		t.Fatal(err)
	}
	if score := sigs["MID"].Metrics["score"]; score != -0.3 {
		t.Errorf("raised weak cut scored %.2f, want -0.3", score)
	}
}

func TestRegisterAllCoversRoster(t *testing.T) {
	reg := registry.New()
	RegisterAll(reg, newFakeProvider())

	want := []string{
		"fundamentals", "warren_buffett", "ben_graham",
		"bill_ackman", "sentiment", "technicals", "risk_manager",
	}
	infos := reg.List()
	if len(infos) != len(want) {
		t.Fatalf("registered = %d, want %d", len(infos), len(want))
	}
	for i, name := range want {
		if infos[i].Name != name {
			t.Errorf("roster[%d] = %s, want %s", i, infos[i].Name, name)
		}
	}
	for _, name := range want {
		a, err := reg.Create(name, nil)
		if err != nil {
			t.Errorf("Create(%s): %v", name, err)
			continue
		}
		if a.Name() != name {
			t.Errorf("Create(%s).Name() = %s", name, a.Name())
		}
	}
}
