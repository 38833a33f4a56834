package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/scry-tutor/internal/generation"
	"google.golang.org/genai"
)

// Name is the provider name used in logs and failure reports.
const Name = "gemini"

// contentGenerator is the subset of the genai client used by Provider.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Config holds the settings for a Gemini provider.
type Config struct {
	APIKey string
	Model  string
	// RequestTimeout bounds a single request. Zero means no provider-level bound.
	RequestTimeout time.Duration
}

// Provider implements generation.Provider on top of the Gemini API.
type Provider struct {
	models  contentGenerator
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

var _ generation.Provider = (*Provider)(nil)

// NewProvider creates a Gemini provider with a new API client.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: %w", generation.ErrInvalidConfig, ErrMissingAPIKey)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}
	return newProvider(client.Models, cfg, logger)
}

func newProvider(models contentGenerator, cfg Config, logger *slog.Logger) (*Provider, error) {
	if models == nil {
		return nil, fmt.Errorf("%w: gemini client cannot be nil", generation.ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("%w: %w", generation.ErrInvalidConfig, ErrMissingModel)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		models:  models,
		model:   cfg.Model,
		timeout: cfg.RequestTimeout,
		logger:  logger.With("component", "gemini_provider", "model", cfg.Model),
	}, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string {
	return Name
}

// Generate implements generation.Provider. It sends one request and returns
// the concatenated text parts of the first candidate.
func (p *Provider) Generate(ctx context.Context, prompt string, params generation.Params) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := p.models.GenerateContent(ctx, p.model,
		[]*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{{Text: prompt}}}},
		requestConfig(params),
	)
	if err != nil {
		p.logger.DebugContext(ctx, "gemini request failed",
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}

	p.logger.DebugContext(ctx, "gemini request completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"response_length", len(text))
	return text, nil
}

func requestConfig(params generation.Params) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(params.Temperature),
		TopP:        genai.Ptr(params.TopP),
	}
	if params.TopK > 0 {
		cfg.TopK = genai.Ptr(params.TopK)
	}
	if params.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = params.MaxOutputTokens
	}
	return cfg
}

// responseText extracts the first candidate's text, translating safety blocks
// and empty responses into generation errors.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrEmptyResponse)
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, fb.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("%w: no candidates", generation.ErrEmptyResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: candidate has no content", generation.ErrEmptyResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("%w: candidate text is blank", generation.ErrEmptyResponse)
	}
	return b.String(), nil
}
