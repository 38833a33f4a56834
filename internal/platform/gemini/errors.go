package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrMissingAPIKey is returned when the provider is configured without a key.
	ErrMissingAPIKey = errors.New("gemini API key cannot be empty")

	// ErrMissingModel is returned when the provider is configured without a model.
	ErrMissingModel = errors.New("gemini model name cannot be empty")
)
