// Package llm selects a text generator implementation from config.
package llm

import (
	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/llm/claude"
	"llm-hedge-fund/internal/llm/noop"
	"llm-hedge-fund/internal/llm/openai"
	"llm-hedge-fund/internal/store"
)

// New returns the generator for cfg.LLM.Provider. Unknown or empty providers
// get the noop generator, whose errors make the LLM decider hold everything.
func New(cfg *store.Config) interfaces.Generator {
	switch cfg.LLM.Provider {
	case "OPENAI":
		return openai.New(cfg)
	case "CLAUDE":
		return claude.New(cfg)
	default:
		return noop.New()
	}
}
