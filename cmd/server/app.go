package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-tutor/internal/config"
	"github.com/phrazzld/scry-tutor/internal/continuity"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/level"
	"github.com/phrazzld/scry-tutor/internal/platform/gemini"
	"github.com/phrazzld/scry-tutor/internal/platform/openai"
	"github.com/phrazzld/scry-tutor/internal/platform/postgres"
	"github.com/phrazzld/scry-tutor/internal/prompt"
	"github.com/phrazzld/scry-tutor/internal/service"
	"github.com/phrazzld/scry-tutor/internal/validation"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	generationService *service.GenerationService
	lessonService     *service.LessonService
	continuity        continuity.Lookup
}

// newApplication wires stores, providers and services. The database must be
// connected already.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	lessonStore := postgres.NewPostgresLessonStore(db, logger)

	// Continuity
	tracker, err := continuity.NewTracker(lessonStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create continuity tracker: %w", err)
	}
	var invalidator service.ContinuityInvalidator
	if cfg.Generation.ContinuityCacheSize > 0 {
		cached, cacheErr := continuity.NewCachedTracker(tracker,
			cfg.Generation.ContinuityCacheSize,
			cfg.Generation.ContinuityCacheTTL,
			logger)
		if cacheErr != nil {
			return nil, fmt.Errorf("failed to create continuity cache: %w", cacheErr)
		}
		app.continuity = cached
		invalidator = cached
	} else {
		app.continuity = tracker
	}

	// Providers
	providers, err := buildProviders(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, err
	}
	client, err := generation.NewFailoverClient(logger, providers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create failover client: %w", err)
	}
	logger.Info("LLM providers initialized", slog.Any("providers", client.Providers()))

	// Prompts
	promptCfg, err := loadPromptConfig(cfg.Generation.PromptConfigPath)
	if err != nil {
		return nil, err
	}
	prompts, err := prompt.NewBuilder(promptCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create prompt builder: %w", err)
	}

	mode, err := validation.ParseEnforcementMode(cfg.Generation.DialogueEnforcement)
	if err != nil {
		return nil, err
	}

	app.generationService, err = service.NewGenerationService(
		level.NewDispatcher(),
		client,
		prompts,
		validation.NewValidator(logger, mode),
		app.continuity,
		generationOptions(cfg),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	app.lessonService, err = service.NewLessonService(lessonStore, db, invalidator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create lesson service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// buildProviders creates one provider per entry of ProviderOrder, in order.
func buildProviders(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) ([]generation.Provider, error) {
	providers := make([]generation.Provider, 0, len(cfg.ProviderOrder))
	for _, name := range cfg.ProviderOrder {
		var (
			p   generation.Provider
			err error
		)
		switch name {
		case config.ProviderGemini:
			p, err = gemini.NewProvider(ctx, gemini.Config{
				APIKey:         cfg.GeminiAPIKey,
				Model:          cfg.GeminiModel,
				RequestTimeout: cfg.RequestTimeout,
			}, logger)
		case config.ProviderOpenAI:
			p, err = openai.NewProvider(openai.Config{
				Name:           config.ProviderOpenAI,
				APIKey:         cfg.OpenAIAPIKey,
				BaseURL:        cfg.OpenAIBaseURL,
				Model:          cfg.OpenAIModel,
				RequestTimeout: cfg.RequestTimeout,
			}, logger)
		case config.ProviderGroq:
			p, err = openai.NewProvider(openai.Config{
				Name:           config.ProviderGroq,
				APIKey:         cfg.GroqAPIKey,
				BaseURL:        cfg.GroqBaseURL,
				Model:          cfg.GroqModel,
				RequestTimeout: cfg.RequestTimeout,
			}, logger)
		default:
			return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, name)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to initialize %s provider: %w", name, err)
		}
		providers = append(providers, p)
	}
	return providers, nil
}

func loadPromptConfig(path string) (*prompt.Config, error) {
	if path == "" {
		cfg, err := prompt.DefaultConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load default prompt config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := prompt.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt config %s: %w", path, err)
	}
	return cfg, nil
}

func generationOptions(cfg *config.Config) service.GenerationOptions {
	return service.GenerationOptions{
		Params: generation.Params{
			Temperature:     cfg.LLM.Temperature,
			TopK:            cfg.LLM.TopK,
			TopP:            cfg.LLM.TopP,
			MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		},
		Retry: generation.RetryPolicy{
			MaxAttempts: cfg.LLM.MaxAttempts,
			BaseDelay:   cfg.LLM.RetryBaseDelay,
			MaxDelay:    cfg.LLM.RetryMaxDelay,
		},
		PipelineTimeout:    cfg.Generation.PipelineTimeout,
		FallbackToTemplate: cfg.Generation.FallbackToTemplate,
		BatchConcurrency:   cfg.Generation.BatchConcurrency,
	}
}

// Run serves HTTP until ctx is canceled, then shuts down.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
