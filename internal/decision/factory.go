package decision

import (
	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/store"
)

// New builds the decider selected by cfg.Decision.Mode.
func New(cfg *store.Config, gen interfaces.Generator) interfaces.Decider {
	switch cfg.Decision.Mode {
	case "LLM":
		return NewLLM(gen, cfg.LLM.System, cfg.Decision.MaxPosition)
	default:
		return NewMajority(cfg.Decision.MaxPosition)
	}
}
