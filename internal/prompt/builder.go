package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/phrazzld/scry-tutor/internal/domain"
)

// Input is everything a lesson prompt is built from.
type Input struct {
	Profile             domain.LearnerProfile
	Topic               domain.LearningTopic
	Length              domain.SessionLength
	VocabularyGuide     string
	PreviousLessonTitle string
	PreviousVocabulary  []domain.VocabularyRef
}

// templateData is the value the lesson template executes against.
type templateData struct {
	Profile             domain.LearnerProfile
	Topic               domain.LearningTopic
	TargetLanguage      string
	Minutes             int
	ExerciseCount       int
	VocabularyGuide     string
	AgeGroupNote        string
	MethodologyNote     string
	Excluded            []string
	Roles               []string
	Scenarios           []string
	PreviousLessonTitle string
	PreviousVocabulary  []domain.VocabularyRef
}

// Builder renders lesson prompts from configuration.
type Builder struct {
	cfg  *Config
	tmpl *template.Template
}

// NewBuilder parses the configured lesson template.
func NewBuilder(cfg *Config) (*Builder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	tmpl, err := template.New("lesson").
		Funcs(template.FuncMap{"join": strings.Join}).
		Option("missingkey=error").
		Parse(cfg.LessonTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse lesson template: %v", ErrInvalidConfig, err)
	}
	return &Builder{cfg: cfg, tmpl: tmpl}, nil
}

// exerciseCount is the number of exercises requested for a session length.
func exerciseCount(length domain.SessionLength) int {
	if length == domain.SessionLong {
		return 6
	}
	return 4
}

// Build renders the prompt for one lesson.
func (b *Builder) Build(in Input) (string, error) {
	data := templateData{
		Profile:             in.Profile,
		Topic:               in.Topic,
		TargetLanguage:      in.Profile.TargetLanguage,
		Minutes:             in.Length.Minutes(),
		ExerciseCount:       exerciseCount(in.Length),
		VocabularyGuide:     strings.TrimSpace(in.VocabularyGuide),
		AgeGroupNote:        b.cfg.AgeGroups[normalize(in.Profile.AgeGroup)],
		MethodologyNote:     b.cfg.Methodologies[string(in.Topic.Methodology)],
		PreviousLessonTitle: in.PreviousLessonTitle,
		PreviousVocabulary:  in.PreviousVocabulary,
	}
	if hints, ok := b.cfg.Occupation(in.Profile.Occupation); ok {
		data.Excluded = hints.Exclude
		data.Roles = hints.Roles
		data.Scenarios = hints.Scenarios
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute lesson template: %w", err)
	}
	return buf.String(), nil
}

// ExcludedVocabulary returns the words the learner's occupation makes too basic
// to teach.
func (b *Builder) ExcludedVocabulary(occupation string) []string {
	hints, _ := b.cfg.Occupation(occupation)
	return hints.Exclude
}
