package decision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"llm-hedge-fund/internal/types"
)

type fakeGenerator struct {
	output string
	err    error

	prompts []string
}

func (g *fakeGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.output, g.err
}

func TestLLMParsesValidOutput(t *testing.T) {
	gen := &fakeGenerator{output: "```json\n" +
		`{"decisions":{"AAPL":{"action":"buy","quantity":40,"confidence":85,"reasoning":"strong consensus"},` +
		`"MSFT":{"action":"hold","quantity":0,"confidence":20,"reasoning":"mixed"}}}` + "\n```"}

	d := NewLLM(gen, "", 100)
	decisions, err := d.Decide(context.Background(), majorityState("AAPL", "MSFT"), map[string]float64{"AAPL": 210})
	if err != nil {
		t.Fatal(err)
	}
	if decisions["AAPL"].Action != types.ActionBuy || decisions["AAPL"].Quantity != 40 {
		t.Errorf("AAPL decision = %+v", decisions["AAPL"])
	}
	if decisions["MSFT"].Action != types.ActionHold {
		t.Errorf("MSFT decision = %+v", decisions["MSFT"])
	}
}

func TestLLMClampsConfidence(t *testing.T) {
	gen := &fakeGenerator{output: `{"decisions":{"AAPL":{"action":"sell","quantity":5,"confidence":250,"reasoning":"x"}}}`}

	d := NewLLM(gen, "", 100)
	decisions, err := d.Decide(context.Background(), majorityState("AAPL"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if decisions["AAPL"].Confidence != 100 {
		t.Errorf("confidence = %.1f, want clamped to 100", decisions["AAPL"].Confidence)
	}
}

func TestLLMMalformedOutputHoldsEverything(t *testing.T) {
	gen := &fakeGenerator{output: "I think you should definitely buy AAPL!"}

	d := NewLLM(gen, "", 100)
	decisions, err := d.Decide(context.Background(), majorityState("AAPL", "MSFT"), nil)
	if err != nil {
		t.Fatal(err)
	}
	assertAllHold(t, decisions, "AAPL", "MSFT")
}

func TestLLMMissingTickerHoldsEverything(t *testing.T) {
	gen := &fakeGenerator{output: `{"decisions":{"AAPL":{"action":"buy","quantity":10,"confidence":80,"reasoning":"x"}}}`}

	d := NewLLM(gen, "", 100)
	decisions, err := d.Decide(context.Background(), majorityState("AAPL", "MSFT"), nil)
	if err != nil {
		t.Fatal(err)
	}
	// A partial decision set is rejected wholesale, including the valid part.
	assertAllHold(t, decisions, "AAPL", "MSFT")
}

func TestLLMInvalidActionHoldsEverything(t *testing.T) {
	gen := &fakeGenerator{output: `{"decisions":{"AAPL":{"action":"yolo","quantity":10,"confidence":80,"reasoning":"x"}}}`}

	d := NewLLM(gen, "", 100)
	decisions, err := d.Decide(context.Background(), majorityState("AAPL"), nil)
	if err != nil {
		t.Fatal(err)
	}
	assertAllHold(t, decisions, "AAPL")
}

func TestLLMNegativeQuantityHoldsEverything(t *testing.T) {
	gen := &fakeGenerator{output: `{"decisions":{"AAPL":{"action":"buy","quantity":-5,"confidence":80,"reasoning":"x"}}}`}

	d := NewLLM(gen, "", 100)
	decisions, err := d.Decide(context.Background(), majorityState("AAPL"), nil)
	if err != nil {
		t.Fatal(err)
	}
	assertAllHold(t, decisions, "AAPL")
}

func TestLLMGeneratorErrorHoldsEverything(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model unavailable")}

	d := NewLLM(gen, "", 100)
	decisions, err := d.Decide(context.Background(), majorityState("AAPL", "MSFT", "NVDA"), nil)
	if err != nil {
		t.Fatal(err)
	}
	assertAllHold(t, decisions, "AAPL", "MSFT", "NVDA")
}

func TestLLMPromptCarriesSignalsAndPrices(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("short-circuit")}
	st := majorityState("AAPL")
	st.SetSignals("fundamentals", map[string]types.Signal{"AAPL": sig(types.SignalBullish, 80)})

	d := NewLLM(gen, "", 100)
	if _, err := d.Decide(context.Background(), st, map[string]float64{"AAPL": 210.5}); err != nil {
		t.Fatal(err)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected one generator call, got %d", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	for _, want := range []string{"fundamentals", "bullish", "210.5", "AAPL"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func assertAllHold(t *testing.T, decisions map[string]types.Decision, tickers ...string) {
	t.Helper()
	if len(decisions) != len(tickers) {
		t.Fatalf("expected %d decisions, got %d", len(tickers), len(decisions))
	}
	for _, ticker := range tickers {
		dec, ok := decisions[ticker]
		if !ok {
			t.Errorf("missing decision for %s", ticker)
			continue
		}
		if dec.Action != types.ActionHold || dec.Quantity != 0 || dec.Confidence != 0 {
			t.Errorf("%s: expected hold/0/0, got %+v", ticker, dec)
		}
	}
}
