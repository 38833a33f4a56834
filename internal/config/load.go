package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is prepended to every environment variable, e.g. SCRY_SERVER_PORT.
const envPrefix = "SCRY"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("llm.provider_order", []string{ProviderGemini})
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.gemini_model", "gemini-2.0-flash")
	v.SetDefault("llm.openai_api_key", "")
	v.SetDefault("llm.openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.openai_model", "gpt-4o-mini")
	v.SetDefault("llm.groq_api_key", "")
	v.SetDefault("llm.groq_base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.groq_model", "llama-3.3-70b-versatile")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.top_k", 40)
	v.SetDefault("llm.top_p", 0.95)
	v.SetDefault("llm.max_output_tokens", 8192)
	v.SetDefault("llm.request_timeout", "60s")
	v.SetDefault("llm.max_attempts", 3)
	v.SetDefault("llm.retry_base_delay", "2s")
	v.SetDefault("llm.retry_max_delay", "30s")

	v.SetDefault("generation.pipeline_timeout", "120s")
	v.SetDefault("generation.dialogue_enforcement", "log")
	v.SetDefault("generation.fallback_to_template", false)
	v.SetDefault("generation.batch_concurrency", 3)
	v.SetDefault("generation.continuity_cache_size", 1024)
	v.SetDefault("generation.continuity_cache_ttl", "5m")
	v.SetDefault("generation.prompt_config_path", "")
}

// Load reads configuration from a local .env file (if present), an optional
// config.yaml in the working directory, and SCRY_ environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return load(v)
}

// LoadFile is Load with an explicit configuration file.
func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	for i, p := range cfg.LLM.ProviderOrder {
		cfg.LLM.ProviderOrder[i] = strings.ToLower(strings.TrimSpace(p))
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and cross-field rules.
func Validate(cfg *Config) error {
	validate := validator.New()
	validate.RegisterStructValidation(validateLLM, LLMConfig{})
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// validateLLM requires an API key for every provider listed in the order.
func validateLLM(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(LLMConfig)
	seen := make(map[string]bool, len(cfg.ProviderOrder))
	for _, p := range cfg.ProviderOrder {
		if seen[p] {
			sl.ReportError(cfg.ProviderOrder, "ProviderOrder", "ProviderOrder", "unique", p)
		}
		seen[p] = true
		if cfg.APIKey(p) == "" {
			sl.ReportError(cfg.APIKey(p), providerKeyField(p), providerKeyField(p), "required", p)
		}
	}
}

func providerKeyField(provider string) string {
	switch provider {
	case ProviderGemini:
		return "GeminiAPIKey"
	case ProviderOpenAI:
		return "OpenAIAPIKey"
	case ProviderGroq:
		return "GroqAPIKey"
	}
	return "APIKey"
}
