package ai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// LLMCompleter adapts any langchaingo model to Completer
type LLMCompleter struct {
	name  string
	model llms.Model
}

// NewLLMCompleter wraps model; name appears in error messages
func NewLLMCompleter(name string, model llms.Model) *LLMCompleter {
	return &LLMCompleter{name: name, model: model}
}

// Complete makes exactly one call to the model, no retries
func (c *LLMCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrGeneration, c.name, err)
	}
	return out, nil
}
