package generation

import "context"

// Params are the sampling parameters passed with every prompt.
type Params struct {
	Temperature     float32
	TopK            float32
	TopP            float32
	MaxOutputTokens int32
}

// DefaultParams are used when the configuration does not override them.
func DefaultParams() Params {
	return Params{
		Temperature:     0.7,
		TopK:            40,
		TopP:            0.95,
		MaxOutputTokens: 8192,
	}
}

// Provider is a single generative text backend. Implementations issue exactly
// one request per call and must not retry internally.
type Provider interface {
	// Name identifies the provider in logs and aggregated failure messages.
	Name() string

	// Generate sends prompt to the backend and returns its raw text output.
	// No well-formedness of the returned text is assumed.
	Generate(ctx context.Context, prompt string, params Params) (string, error)
}

// TextGenerator is the contract the lesson pipeline depends on. FailoverClient
// satisfies it.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, params Params) (Result, error)
}

// Result is the outcome of a successful generation.
type Result struct {
	Provider string
	Text     string
}
