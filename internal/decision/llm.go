package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/logger"
	"llm-hedge-fund/internal/state"
	"llm-hedge-fund/internal/types"
)

const defaultSystemPrompt = "You are a disciplined portfolio manager. Weigh the analyst signals and output STRICT JSON only."

// LLMDecider asks a text generator to act as portfolio manager over the full
// signal map. Any failure, generation, parsing or validation, degrades to an
// all-hold decision set so a flaky model can never produce a partial or
// malformed trade list.
type LLMDecider struct {
	gen         interfaces.Generator
	system      string
	maxPosition int
}

var _ interfaces.Decider = (*LLMDecider)(nil)

// NewLLM builds an LLM-backed decider. An empty system prompt selects the
// built-in one.
func NewLLM(gen interfaces.Generator, system string, maxPosition int) *LLMDecider {
	if system == "" {
		system = defaultSystemPrompt
	}
	return &LLMDecider{gen: gen, system: system, maxPosition: maxPosition}
}

type llmDecision struct {
	Action     string  `json:"action"`
	Quantity   int     `json:"quantity"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

type llmResponse struct {
	Decisions map[string]llmDecision `json:"decisions"`
}

func (d *LLMDecider) Decide(ctx context.Context, st *state.State, prices map[string]float64) (map[string]types.Decision, error) {
	prompt, err := d.buildPrompt(st, prices)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to build portfolio prompt, holding everything", err)
		return allHold(st.Tickers, "Prompt construction failed"), nil
	}

	raw, err := d.gen.Generate(ctx, d.system, prompt)
	if err != nil {
		logger.ErrorWithErr(ctx, "Generator call failed, holding everything", err)
		return allHold(st.Tickers, "Portfolio manager unavailable"), nil
	}

	decisions, err := d.parse(raw, st.Tickers)
	if err != nil {
		logger.Warn(ctx, "Unusable generator output, holding everything", "error", err, "output_preview", preview(raw))
		return allHold(st.Tickers, "Unparseable portfolio manager output"), nil
	}
	return decisions, nil
}

func (d *LLMDecider) buildPrompt(st *state.State, prices map[string]float64) (string, error) {
	payload := map[string]any{
		"tickers":          st.Tickers,
		"analyst_signals":  st.Signals(),
		"current_prices":   prices,
		"portfolio":        st.Portfolio,
		"max_position_qty": d.maxPosition,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	schema := `{"decisions":{"TICKER":{"action":"buy|sell|short|cover|hold","quantity":0,"confidence":0,"reasoning":""}}}`
	return fmt.Sprintf("Schema:%s\nState:%s\n\nReturn a decision for every ticker. Respond ONLY with compact JSON matching the schema.", schema, string(b)), nil
}

// parse extracts the decision object from the generator's text and validates
// it. Every ticker must be present with a valid action and non-negative
// quantity.
func (d *LLMDecider) parse(text string, tickers []string) (map[string]types.Decision, error) {
	t := strings.TrimSpace(text)
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in output")
	}

	var resp llmResponse
	if err := json.Unmarshal([]byte(t[start:end+1]), &resp); err != nil {
		return nil, fmt.Errorf("unmarshal decisions: %w", err)
	}
	if len(resp.Decisions) == 0 {
		return nil, fmt.Errorf("empty decision set")
	}

	out := make(map[string]types.Decision, len(tickers))
	for _, ticker := range tickers {
		ld, ok := resp.Decisions[ticker]
		if !ok {
			return nil, fmt.Errorf("missing decision for %s", ticker)
		}
		action := types.Action(strings.ToLower(strings.TrimSpace(ld.Action)))
		if !types.ValidAction(action) {
			return nil, fmt.Errorf("invalid action %q for %s", ld.Action, ticker)
		}
		if ld.Quantity < 0 {
			return nil, fmt.Errorf("negative quantity for %s", ticker)
		}
		confidence := ld.Confidence
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 100 {
			confidence = 100
		}
		out[ticker] = types.Decision{
			Action:     action,
			Quantity:   ld.Quantity,
			Confidence: confidence,
			Reasoning:  ld.Reasoning,
		}
	}
	return out, nil
}

func allHold(tickers []string, reason string) map[string]types.Decision {
	out := make(map[string]types.Decision, len(tickers))
	for _, ticker := range tickers {
		out[ticker] = types.Decision{
			Action:     types.ActionHold,
			Quantity:   0,
			Confidence: 0,
			Reasoning:  reason,
		}
	}
	return out
}

func preview(s string) string {
	if len(s) > 120 {
		return s[:120]
	}
	return s
}
