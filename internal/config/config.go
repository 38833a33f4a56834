package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// Provider names accepted in LLMConfig.ProviderOrder.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
)

// LLMConfig contains the generative text provider settings. Providers are
// tried in ProviderOrder; each listed provider needs its API key.
type LLMConfig struct {
	ProviderOrder []string `mapstructure:"provider_order" validate:"required,min=1,dive,oneof=gemini openai groq"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model" validate:"required"`

	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
	OpenAIBaseURL string `mapstructure:"openai_base_url" validate:"required,url"`
	OpenAIModel   string `mapstructure:"openai_model" validate:"required"`

	GroqAPIKey  string `mapstructure:"groq_api_key"`
	GroqBaseURL string `mapstructure:"groq_base_url" validate:"required,url"`
	GroqModel   string `mapstructure:"groq_model" validate:"required"`

	Temperature     float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	TopK            float32 `mapstructure:"top_k" validate:"gte=0"`
	TopP            float32 `mapstructure:"top_p" validate:"gte=0,lte=1"`
	MaxOutputTokens int32   `mapstructure:"max_output_tokens" validate:"gte=1"`

	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	MaxAttempts    int           `mapstructure:"max_attempts" validate:"gte=1,lte=10"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay" validate:"gte=0"`
	RetryMaxDelay  time.Duration `mapstructure:"retry_max_delay" validate:"gte=0"`
}

// APIKey returns the configured key for the named provider.
func (c LLMConfig) APIKey(provider string) string {
	switch provider {
	case ProviderGemini:
		return c.GeminiAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderGroq:
		return c.GroqAPIKey
	}
	return ""
}

// GenerationConfig tunes the lesson generation pipeline.
type GenerationConfig struct {
	// PipelineTimeout bounds one lesson request end to end.
	PipelineTimeout time.Duration `mapstructure:"pipeline_timeout" validate:"gt=0"`
	// DialogueEnforcement is "log" (report turn-taking violations) or
	// "reject" (fail the lesson).
	DialogueEnforcement string `mapstructure:"dialogue_enforcement" validate:"required,oneof=log reject"`
	// FallbackToTemplate returns the deterministic tier lesson when providers
	// or decoding are exhausted.
	FallbackToTemplate bool `mapstructure:"fallback_to_template"`
	BatchConcurrency   int  `mapstructure:"batch_concurrency" validate:"gte=1,lte=16"`

	ContinuityCacheSize int           `mapstructure:"continuity_cache_size" validate:"gte=0"`
	ContinuityCacheTTL  time.Duration `mapstructure:"continuity_cache_ttl" validate:"gte=0"`

	// PromptConfigPath optionally overrides the embedded prompt configuration.
	PromptConfigPath string `mapstructure:"prompt_config_path"`
}
