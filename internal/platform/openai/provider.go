package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/scry-tutor/internal/generation"
)

const (
	// DefaultBaseURL is the OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"

	// maxErrorBody bounds how much of an error response is kept in messages.
	maxErrorBody = 2048
)

var (
	// ErrMissingAPIKey is returned when the provider is configured without a key.
	ErrMissingAPIKey = errors.New("api key cannot be empty")

	// ErrMissingModel is returned when the provider is configured without a model.
	ErrMissingModel = errors.New("model name cannot be empty")
)

// Config holds the settings for one OpenAI-compatible provider.
type Config struct {
	// Name identifies the provider in failure reports, e.g. "openai" or "groq".
	Name    string
	APIKey  string
	BaseURL string
	Model   string
	// RequestTimeout bounds a single request. Defaults to 60s.
	RequestTimeout time.Duration
	// HTTPClient overrides the client used for requests.
	HTTPClient *http.Client
}

// Provider implements generation.Provider against /chat/completions.
type Provider struct {
	name     string
	apiKey   string
	endpoint string
	model    string
	http     *http.Client
	logger   *slog.Logger
}

var _ generation.Provider = (*Provider)(nil)

// NewProvider creates a provider from cfg.
func NewProvider(cfg Config, logger *slog.Logger) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: %s: %w", generation.ErrInvalidConfig, cfg.Name, ErrMissingAPIKey)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("%w: %s: %w", generation.ErrInvalidConfig, cfg.Name, ErrMissingModel)
	}
	if cfg.Name == "" {
		cfg.Name = "openai"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.RequestTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Provider{
		name:     cfg.Name,
		apiKey:   cfg.APIKey,
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		model:    cfg.Model,
		http:     client,
		logger:   logger.With("component", "chat_provider", "provider", cfg.Name, "model", cfg.Model),
	}, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string {
	return p.name
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	TopP        float32       `json:"top_p,omitempty"`
	MaxTokens   int32         `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

// Error implements the error interface. The status code is included so that
// generation.IsRetryable can classify 429 and 503 responses.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s: %s",
		e.Provider, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Unwrap marks throttling and server overload as transient.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return generation.ErrTransientFailure
	}
	return nil
}

// Generate implements generation.Provider. It sends the prompt as a single
// user message. TopK has no equivalent in this API and is ignored.
func (p *Provider) Generate(ctx context.Context, prompt string, params generation.Params) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: params.Temperature,
		TopP:        params.TopP,
		MaxTokens:   params.MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	start := time.Now()
	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", p.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{Provider: p.name, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		p.logger.DebugContext(ctx, "chat completion rejected",
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds())
		return "", statusErr
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %s: failed to decode chat response: %v", generation.ErrInvalidResponse, p.name, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: %s: no choices", generation.ErrEmptyResponse, p.name)
	}
	choice := out.Choices[0]
	if choice.FinishReason == "content_filter" {
		return "", fmt.Errorf("%w: %s", generation.ErrContentBlocked, p.name)
	}
	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", fmt.Errorf("%w: %s: blank message", generation.ErrEmptyResponse, p.name)
	}

	p.logger.DebugContext(ctx, "chat completion succeeded",
		"duration_ms", time.Since(start).Milliseconds(),
		"response_length", len(choice.Message.Content))
	return choice.Message.Content, nil
}
