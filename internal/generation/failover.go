package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// FailoverClient tries an ordered list of providers for one prompt and returns
// the first non-empty response. Providers are called strictly sequentially.
type FailoverClient struct {
	providers []Provider
	logger    *slog.Logger
}

var _ TextGenerator = (*FailoverClient)(nil)

// NewFailoverClient creates a client over the given providers, tried in the
// order supplied.
func NewFailoverClient(logger *slog.Logger, providers ...Provider) (*FailoverClient, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}
	for i, p := range providers {
		if p == nil {
			return nil, fmt.Errorf("%w: provider %d is nil", ErrInvalidConfig, i)
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	ordered := make([]Provider, len(providers))
	copy(ordered, providers)

	return &FailoverClient{
		providers: ordered,
		logger:    logger.With("component", "failover_client"),
	}, nil
}

// Providers returns the provider names in failover order.
func (c *FailoverClient) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Generate sends prompt to each provider in order until one returns non-empty
// text. Failures of earlier providers are logged but not returned when a later
// provider succeeds. When every provider fails the returned error is an
// *AllProvidersFailedError.
func (c *FailoverClient) Generate(ctx context.Context, prompt string, params Params) (Result, error) {
	failures := make([]ProviderFailure, 0, len(c.providers))

	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			c.logger.WarnContext(ctx, "generation cancelled before trying provider",
				"provider", p.Name(),
				"failed_providers", len(failures),
				"error", err)
			return Result{}, fmt.Errorf("%w: %w", ErrTransientFailure, err)
		}

		start := time.Now()
		text, err := p.Generate(ctx, prompt, params)
		if err == nil && strings.TrimSpace(text) == "" {
			err = ErrEmptyResponse
		}
		if err != nil {
			failure := ProviderFailure{Provider: p.Name(), Err: err}
			failures = append(failures, failure)
			c.logger.WarnContext(ctx, "provider failed, trying next",
				"provider", p.Name(),
				"duration_ms", time.Since(start).Milliseconds(),
				"error", failure.Error())
			continue
		}

		c.logger.InfoContext(ctx, "provider succeeded",
			"provider", p.Name(),
			"duration_ms", time.Since(start).Milliseconds(),
			"response_length", len(text),
			"failed_providers", len(failures))
		return Result{Provider: p.Name(), Text: text}, nil
	}

	allErr := &AllProvidersFailedError{Failures: failures}
	c.logger.ErrorContext(ctx, "all providers failed",
		"providers", allErr.Providers())
	return Result{}, allErr
}
