package driven

import "context"

// GenerateOptions controls text generation behaviour.
type GenerateOptions struct {
	// MaxTokens limits the response length (0 = model default).
	MaxTokens int

	// Temperature controls randomness (0 = model default).
	Temperature float64
}

// LLMService provides text generation for answering questions over
// published chunks.
type LLMService interface {
	// Generate produces a completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable without running inference.
	Ping(ctx context.Context) error
}
