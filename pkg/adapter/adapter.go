package adapter

import "context"

// Adapter defines the interface for LLM provider adapters.
// Adapters back the optional routing tie-breaker only; the selected coding
// agent itself is never invoked by this program.
type Adapter interface {
	// Generate sends a prompt to the model and returns the response text.
	Generate(ctx context.Context, model string, prompt string) (string, error)

	// Name returns the adapter's identifier.
	Name() string

	// Models returns the list of supported models.
	Models() []string
}
