package generation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/scry-tutor/internal/redact"
)

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when lesson text could not be generated by any provider
	ErrGenerationFailed = errors.New("failed to generate lesson text")

	// ErrInvalidResponse is returned when provider output cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrEmptyResponse is returned when a provider answers with blank text
	ErrEmptyResponse = errors.New("empty response from language model")

	// ErrContentBlocked is returned when the provider blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during lesson generation")

	// ErrInvalidConfig is returned when a provider configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrNoProviders is returned when a failover client has nothing to try
	ErrNoProviders = errors.New("no generation providers configured")
)

// ProviderFailure records why a single provider in a failover chain failed.
type ProviderFailure struct {
	Provider string
	Err      error
}

// Error implements the error interface. The message is redacted because
// provider SDKs echo request URLs that can carry API keys.
func (f ProviderFailure) Error() string {
	return fmt.Sprintf("%s: %s", f.Provider, redact.Error(f.Err))
}

// Unwrap returns the provider's original error.
func (f ProviderFailure) Unwrap() error {
	return f.Err
}

// AllProvidersFailedError is returned when every provider in a failover chain
// failed. It unwraps to ErrGenerationFailed and to each provider's error.
type AllProvidersFailedError struct {
	Failures []ProviderFailure
}

// Error joins every "provider: message" pair with newlines.
func (e *AllProvidersFailedError) Error() string {
	lines := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		lines = append(lines, f.Error())
	}
	return fmt.Sprintf("%v:\n%s", ErrGenerationFailed, strings.Join(lines, "\n"))
}

// Unwrap exposes ErrGenerationFailed and the individual provider errors to
// errors.Is and errors.As.
func (e *AllProvidersFailedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrGenerationFailed)
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Providers returns the names of the providers that failed, in call order.
func (e *AllProvidersFailedError) Providers() []string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.Provider)
	}
	return names
}
