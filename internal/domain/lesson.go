package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Lesson validation errors
var (
	ErrEmptyLessonTitle     = errors.New("lesson title cannot be empty")
	ErrInvalidDifficulty    = errors.New("lesson difficulty must be between 1 and 8")
	ErrNoExercises          = errors.New("lesson must contain at least one exercise")
	ErrInvalidExerciseType  = errors.New("exercise type cannot be empty")
	ErrExerciseTypeMismatch = errors.New("exercise content does not match requested type")
)

// Difficulty bounds for a generated lesson.
const (
	MinDifficulty = 1
	MaxDifficulty = 8
)

// ExerciseType discriminates the content payload of an Exercise.
type ExerciseType string

// Known exercise types. Providers may emit others; those pass through untouched.
const (
	ExerciseVocabulary    ExerciseType = "vocabulary"
	ExerciseGrammar       ExerciseType = "grammar"
	ExerciseDialogue      ExerciseType = "dialogue"
	ExerciseComprehension ExerciseType = "comprehension"
	ExerciseRoleplay      ExerciseType = "roleplay"
	ExerciseDiscussion    ExerciseType = "discussion"
	ExerciseListening     ExerciseType = "listening"
	ExerciseWriting       ExerciseType = "writing"
	ExercisePronunciation ExerciseType = "pronunciation"
)

// VocabularyItem is a single taught word with its supporting material.
// Expressions are empty at the lowest tier.
type VocabularyItem struct {
	Word         string   `json:"word"`
	PartOfSpeech string   `json:"partOfSpeech"`
	Phonetic     string   `json:"phonetic"`
	Definition   string   `json:"definition"`
	Example      string   `json:"example"`
	Synonym      string   `json:"synonym,omitempty"`
	Expressions  []string `json:"expressions"`
}

// DialogueLine is one utterance in a dialogue exercise.
type DialogueLine struct {
	Character string `json:"character"`
	Text      string `json:"text"`
}

// VocabularyContent is the payload of a vocabulary exercise.
type VocabularyContent struct {
	Instructions string           `json:"instructions,omitempty"`
	Items        []VocabularyItem `json:"items"`
}

// GrammarContent is the payload of a grammar exercise.
type GrammarContent struct {
	Focus       string   `json:"focus"`
	Explanation string   `json:"explanation"`
	Examples    []string `json:"examples"`
	Practice    []string `json:"practice"`
}

// DialogueContent is the payload of a dialogue exercise. LearnerCharacter names
// the character played by the learner; when empty the learner's own name is used.
type DialogueContent struct {
	Setting          string         `json:"setting"`
	LearnerCharacter string         `json:"learnerCharacter,omitempty"`
	Characters       []string       `json:"characters"`
	Lines            []DialogueLine `json:"lines"`
}

// DiscussionContent is the payload of a discussion exercise.
type DiscussionContent struct {
	Prompt    string   `json:"prompt,omitempty"`
	Questions []string `json:"questions"`
}

// Exercise is one activity of a lesson. Content holds the type-specific payload
// as raw JSON so that unknown exercise types survive a round trip.
type Exercise struct {
	Type        ExerciseType    `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Content     json.RawMessage `json:"content"`
	TimeMinutes int             `json:"timeMinutes"`
}

// NewExercise builds an Exercise whose content is the JSON encoding of payload.
func NewExercise(kind ExerciseType, title, description string, minutes int, payload any) (Exercise, error) {
	ex := Exercise{
		Type:        kind,
		Title:       title,
		Description: description,
		TimeMinutes: minutes,
	}
	if err := ex.SetContent(payload); err != nil {
		return Exercise{}, err
	}
	return ex, nil
}

// SetContent replaces the exercise payload with the JSON encoding of payload.
func (e *Exercise) SetContent(payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s exercise content: %w", e.Type, err)
	}
	e.Content = raw
	return nil
}

// Is reports whether the exercise has the given type, ignoring case and
// surrounding whitespace.
func (e Exercise) Is(kind ExerciseType) bool {
	return ExerciseType(strings.ToLower(strings.TrimSpace(string(e.Type)))) == kind
}

// VocabularyContent decodes the payload of a vocabulary exercise.
func (e Exercise) VocabularyContent() (VocabularyContent, error) {
	var c VocabularyContent
	err := e.decodeContent(ExerciseVocabulary, &c)
	return c, err
}

// GrammarContent decodes the payload of a grammar exercise.
func (e Exercise) GrammarContent() (GrammarContent, error) {
	var c GrammarContent
	err := e.decodeContent(ExerciseGrammar, &c)
	return c, err
}

// DialogueContent decodes the payload of a dialogue exercise.
func (e Exercise) DialogueContent() (DialogueContent, error) {
	var c DialogueContent
	err := e.decodeContent(ExerciseDialogue, &c)
	return c, err
}

// DiscussionContent decodes the payload of a discussion exercise.
func (e Exercise) DiscussionContent() (DiscussionContent, error) {
	var c DiscussionContent
	err := e.decodeContent(ExerciseDiscussion, &c)
	return c, err
}

func (e Exercise) decodeContent(kind ExerciseType, v any) error {
	if !e.Is(kind) {
		return fmt.Errorf("%w: have %q, want %q", ErrExerciseTypeMismatch, e.Type, kind)
	}
	if len(e.Content) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Content, v); err != nil {
		return fmt.Errorf("failed to decode %s exercise content: %w", kind, err)
	}
	return nil
}

// GeneratedLesson is the structured lesson handed back to the caller.
// It is mutated only by post-generation validation, then treated as immutable.
type GeneratedLesson struct {
	Title      string     `json:"title"`
	LessonType string     `json:"lessonType"`
	Difficulty int        `json:"difficulty"`
	Duration   int        `json:"duration"`
	Objective  string     `json:"objective"`
	Skills     []string   `json:"skills"`
	Vocabulary []string   `json:"vocabulary"`
	Context    string     `json:"context"`
	Exercises  []Exercise `json:"exercises"`
	Homework   string     `json:"homework,omitempty"`
	Materials  []string   `json:"materials,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// Validate checks the structural requirements of a lesson.
func (l *GeneratedLesson) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return ErrEmptyLessonTitle
	}
	if l.Difficulty < MinDifficulty || l.Difficulty > MaxDifficulty {
		return fmt.Errorf("%w: got %d", ErrInvalidDifficulty, l.Difficulty)
	}
	if len(l.Exercises) == 0 {
		return ErrNoExercises
	}
	for i, ex := range l.Exercises {
		if strings.TrimSpace(string(ex.Type)) == "" {
			return fmt.Errorf("%w: exercise %d", ErrInvalidExerciseType, i)
		}
	}
	return nil
}

// FirstExercise returns the index of the first exercise of the given type,
// or -1 when there is none.
func (l *GeneratedLesson) FirstExercise(kind ExerciseType) int {
	for i, ex := range l.Exercises {
		if ex.Is(kind) {
			return i
		}
	}
	return -1
}
