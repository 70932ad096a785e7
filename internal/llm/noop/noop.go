package noop

import (
	"context"
	"errors"
)

// Generator is the fallback when no model provider is configured. It always
// errors, which downstream consumers treat as "hold everything".
type Generator struct{}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	return "", errors.New("no text generator configured")
}
