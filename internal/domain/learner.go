package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Learner profile validation errors
var (
	ErrEmptyLearnerName   = errors.New("learner name cannot be empty")
	ErrEmptyTargetLang    = errors.New("learner target language cannot be empty")
	ErrEmptyNativeLang    = errors.New("learner native language cannot be empty")
	ErrInvalidLearnerTier = errors.New("learner tier is invalid")
)

// LearnerProfile describes the person a lesson is generated for.
// It is caller-owned input and is never mutated by the generation pipeline.
type LearnerProfile struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	TargetLanguage string    `json:"target_language"`
	NativeLanguage string    `json:"native_language"`
	AgeGroup       string    `json:"age_group"`
	Tier           Tier      `json:"tier"`
	Goals          []string  `json:"goals"`
	Occupation     string    `json:"occupation,omitempty"`
	Weaknesses     []string  `json:"weaknesses,omitempty"`
	Interests      []string  `json:"interests,omitempty"`
}

// Validate checks the fields the generation pipeline depends on.
// The tier itself is routed by the level dispatcher, so only its presence
// is checked here.
func (p LearnerProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyLearnerName
	}
	if strings.TrimSpace(p.TargetLanguage) == "" {
		return ErrEmptyTargetLang
	}
	if strings.TrimSpace(p.NativeLanguage) == "" {
		return ErrEmptyNativeLang
	}
	if p.Tier == "" {
		return ErrInvalidLearnerTier
	}
	return nil
}
