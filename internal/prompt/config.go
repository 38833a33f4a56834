package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfigYAML []byte

// ErrInvalidConfig is returned when prompt configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid prompt configuration")

// OccupationHints tailor vocabulary and dialogue to a learner's job.
type OccupationHints struct {
	Exclude   []string `yaml:"exclude"`
	Roles     []string `yaml:"roles"`
	Scenarios []string `yaml:"scenarios"`
}

// Config is the prompt configuration data.
type Config struct {
	Methodologies  map[string]string          `yaml:"methodologies"`
	AgeGroups      map[string]string          `yaml:"age_groups"`
	Occupations    map[string]OccupationHints `yaml:"occupations"`
	LessonTemplate string                     `yaml:"lesson_template"`
}

// DefaultConfig returns the embedded configuration.
func DefaultConfig() (*Config, error) {
	return ParseConfig(defaultConfigYAML)
}

// LoadConfig reads configuration from path, or returns the embedded default
// when path is empty.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrInvalidConfig, path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration. Map keys are normalized to lower
// case so lookups ignore case.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if strings.TrimSpace(cfg.LessonTemplate) == "" {
		return nil, fmt.Errorf("%w: lesson_template is empty", ErrInvalidConfig)
	}

	cfg.AgeGroups = lowerKeys(cfg.AgeGroups)
	occupations := make(map[string]OccupationHints, len(cfg.Occupations))
	for k, v := range cfg.Occupations {
		occupations[normalize(k)] = v
	}
	cfg.Occupations = occupations

	methodologies := make(map[string]string, len(cfg.Methodologies))
	for k, v := range cfg.Methodologies {
		methodologies[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	cfg.Methodologies = methodologies

	return &cfg, nil
}

// Occupation returns the hints for occupation, matching case-insensitively.
func (c *Config) Occupation(occupation string) (OccupationHints, bool) {
	h, ok := c.Occupations[normalize(occupation)]
	return h, ok
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[normalize(k)] = v
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
