package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInput() Input {
	return Input{
		Profile: domain.LearnerProfile{
			Name:           "Ana",
			TargetLanguage: "English",
			NativeLanguage: "Portuguese",
			AgeGroup:       "Adult",
			Tier:           domain.TierB1,
			Goals:          []string{"travel", "work"},
			Occupation:     "Nurse",
		},
		Topic: domain.LearningTopic{
			LessonNumber: 4,
			Title:        "At the pharmacy",
			Objective:    "Ask for medicine",
			Vocabulary:   []string{"prescription", "dose"},
			Methodology:  domain.MethodologyTBLT,
		},
		Length:          domain.SessionLong,
		VocabularyGuide: "Use everyday vocabulary.",
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg, err := DefaultConfig()
	require.NoError(t, err)
	assert.Len(t, cfg.Methodologies, 4)
	assert.Contains(t, cfg.AgeGroups, "adult")

	hints, ok := cfg.Occupation("  Software Engineer ")
	require.True(t, ok)
	assert.Contains(t, hints.Exclude, "code")
}

func TestBuild(t *testing.T) {
	t.Parallel()

	cfg, err := DefaultConfig()
	require.NoError(t, err)
	b, err := NewBuilder(cfg)
	require.NoError(t, err)

	in := testInput()
	in.PreviousLessonTitle = "Feeling unwell"
	in.PreviousVocabulary = []domain.VocabularyRef{{Word: "headache", Definition: "a pain in the head"}}

	out, err := b.Build(in)
	require.NoError(t, err)

	assert.Contains(t, out, "English teacher creating lesson 4")
	assert.Contains(t, out, "Level: B1")
	assert.Contains(t, out, "Seed vocabulary: prescription, dose")
	assert.Contains(t, out, "Task-Based Language Teaching")
	assert.Contains(t, out, "Use everyday vocabulary.")
	assert.Contains(t, out, "hospital, patient, doctor, medicine")
	assert.Contains(t, out, "handing over a shift")
	assert.Contains(t, out, "- headache: a pain in the head")
	assert.Contains(t, out, `"Feeling unwell"`)
	assert.Contains(t, out, "lasts 60 minutes and contains 6 exercises")
	assert.Contains(t, out, `"learnerCharacter": "Ana"`)
}

func TestBuildWithoutOptionalSections(t *testing.T) {
	t.Parallel()

	cfg, err := DefaultConfig()
	require.NoError(t, err)
	b, err := NewBuilder(cfg)
	require.NoError(t, err)

	in := testInput()
	in.Profile.Occupation = ""
	in.Length = domain.SessionShort

	out, err := b.Build(in)
	require.NoError(t, err)
	assert.NotContains(t, out, "CONTINUITY")
	assert.NotContains(t, out, "Do not teach these words")
	assert.Contains(t, out, "contains 4 exercises")
	assert.Empty(t, b.ExcludedVocabulary(""))
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lesson_template: \"Lesson for {{.Profile.Name}}\"\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	b, err := NewBuilder(cfg)
	require.NoError(t, err)
	out, err := b.Build(testInput())
	require.NoError(t, err)
	assert.Equal(t, "Lesson for Ana", out)

	_, err = ParseConfig([]byte("methodologies: {}\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	broken, err := ParseConfig([]byte("lesson_template: \"{{.Nope\"\n"))
	require.NoError(t, err)
	_, err = NewBuilder(broken)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
