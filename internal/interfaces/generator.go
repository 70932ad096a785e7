package interfaces

import "context"

// Generator is the text-generation collaborator used by the delegated
// reasoning decision path. The deterministic path never calls it.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}
