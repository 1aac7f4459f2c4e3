package adapter

import (
	"context"
	"fmt"
)

// MockAdapter echoes prompts deterministically for local runs.
type MockAdapter struct{}

// NewMockAdapter creates a mock adapter.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{}
}

// Name returns the adapter identifier.
func (a *MockAdapter) Name() string {
	return "mock"
}

// Models returns the list of supported mock models.
func (a *MockAdapter) Models() []string {
	return []string{"mock-1"}
}

// Generate returns a deterministic response for the prompt.
func (a *MockAdapter) Generate(_ context.Context, _ string, prompt string) (string, error) {
	return fmt.Sprintf("mock response:\n%s", prompt), nil
}
