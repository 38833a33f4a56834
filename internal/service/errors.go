package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/scry-tutor/internal/store"
	"github.com/phrazzld/scry-tutor/internal/validation"
)

// Sentinel errors returned by the services. The API layer maps them to
// HTTP status codes.
var (
	// ErrInvalidRequest indicates the learner profile, topic or session length
	// failed validation. API layer should map this to HTTP 400 Bad Request.
	ErrInvalidRequest = errors.New("invalid lesson request")

	// ErrTurnTakingViolation is returned in reject enforcement mode when a
	// generated dialogue gives the learner no turn between other speakers.
	ErrTurnTakingViolation = errors.New("generated dialogue violates turn-taking")

	// ErrLessonNotFound indicates the lesson does not exist for the learner.
	// API layer should map this to HTTP 404 Not Found.
	ErrLessonNotFound = errors.New("lesson not found")

	// ErrLessonAlreadyShared is returned when a lesson is shared twice.
	ErrLessonAlreadyShared = errors.New("lesson already shared")
)

// TurnTakingError carries the violations that caused a lesson to be rejected.
type TurnTakingError struct {
	Violations []validation.TurnViolation
}

// Error implements the error interface.
func (e *TurnTakingError) Error() string {
	return fmt.Sprintf("%v: %d violation(s)", ErrTurnTakingViolation, len(e.Violations))
}

// Unwrap lets errors.Is match ErrTurnTakingViolation.
func (e *TurnTakingError) Unwrap() error {
	return ErrTurnTakingViolation
}

// LessonServiceError wraps errors from the lesson service with context.
type LessonServiceError struct {
	// Operation is the operation that failed (e.g., "save_lesson", "share_lesson")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for LessonServiceError.
func (e *LessonServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lesson service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("lesson service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *LessonServiceError) Unwrap() error {
	return e.Err
}

// NewLessonServiceError creates a new LessonServiceError.
// It returns known sentinel errors directly without wrapping.
func NewLessonServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrLessonNotFound) || errors.Is(err, store.ErrLessonNotFound) {
		return ErrLessonNotFound
	}
	if errors.Is(err, ErrLessonAlreadyShared) {
		return ErrLessonAlreadyShared
	}

	return &LessonServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
