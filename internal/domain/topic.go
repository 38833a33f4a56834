package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Methodology is the teaching approach a lesson is built around.
type Methodology string

// Supported methodologies.
const (
	MethodologyCLT  Methodology = "CLT"  // communicative language teaching
	MethodologyTBLT Methodology = "TBLT" // task-based language teaching
	MethodologyPPP  Methodology = "PPP"  // presentation, practice, production
	MethodologyTTT  Methodology = "TTT"  // test, teach, test
)

// Valid reports whether m is a supported methodology.
func (m Methodology) Valid() bool {
	switch m {
	case MethodologyCLT, MethodologyTBLT, MethodologyPPP, MethodologyTTT:
		return true
	}
	return false
}

// Topic validation errors
var (
	ErrEmptyTopicTitle      = errors.New("topic title cannot be empty")
	ErrInvalidLessonNumber  = errors.New("topic lesson number must be positive")
	ErrInvalidMethodology   = errors.New("invalid topic methodology")
	ErrInvalidSessionLength = errors.New("invalid session length")
)

// VocabularyRef is a word carried over from an earlier lesson.
type VocabularyRef struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

// LearningTopic is the caller-supplied subject of a single lesson.
type LearningTopic struct {
	LessonNumber            int             `json:"lesson_number"`
	Title                   string          `json:"title"`
	Objective               string          `json:"objective"`
	Vocabulary              []string        `json:"vocabulary"`
	GrammarFocus            string          `json:"grammar_focus,omitempty"`
	Skills                  []string        `json:"skills"`
	Context                 string          `json:"context"`
	Methodology             Methodology     `json:"methodology"`
	PreviousVocabulary      []VocabularyRef `json:"previous_vocabulary,omitempty"`
	ReusePreviousVocabulary bool            `json:"reuse_previous_vocabulary,omitempty"`
}

// Validate checks the topic fields required to build a lesson.
func (t LearningTopic) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTopicTitle
	}
	if t.LessonNumber <= 0 {
		return ErrInvalidLessonNumber
	}
	if t.Methodology != "" && !t.Methodology.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMethodology, t.Methodology)
	}
	return nil
}

// SessionLength selects one of the two fixed lesson durations.
type SessionLength int

// The two supported session lengths, in minutes.
const (
	SessionShort SessionLength = 30
	SessionLong  SessionLength = 60
)

// Minutes returns the session length in minutes.
func (l SessionLength) Minutes() int {
	return int(l)
}

// Valid reports whether l is one of the two supported lengths.
func (l SessionLength) Valid() bool {
	return l == SessionShort || l == SessionLong
}

// ParseSessionLength maps a minute count to a SessionLength.
func ParseSessionLength(minutes int) (SessionLength, error) {
	l := SessionLength(minutes)
	if !l.Valid() {
		return 0, fmt.Errorf("%w: %d minutes", ErrInvalidSessionLength, minutes)
	}
	return l, nil
}
