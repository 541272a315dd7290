package ai

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
)

// MockCompleter returns deterministic markdown without any network access.
type MockCompleter struct{}

// NewMockCompleter creates a new mock completer
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete derives a stable response from the prompt's hash
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: mock: %w", ErrGeneration, err)
	}

	h := fnv.New32a()
	h.Write([]byte(prompt))

	firstLine := strings.TrimSpace(strings.SplitN(strings.TrimSpace(prompt), "\n", 2)[0])
	return fmt.Sprintf("### Mock response\n\n- **Instruction:** %s\n- Prompt length: %d characters\n- Fingerprint: %08x\n",
		firstLine, len(prompt), h.Sum32()), nil
}
