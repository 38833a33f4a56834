package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-tutor/internal/api/shared"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/service"
	"github.com/phrazzld/scry-tutor/internal/store"
)

const genericErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case err == nil:
		return http.StatusInternalServerError

	// Timeouts first: provider errors may wrap the deadline.
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	// Bad request errors
	case errors.As(err, &validationErrs),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, domain.ErrUnsupportedTier),
		errors.Is(err, domain.ErrInvalidSessionLength),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, service.ErrLessonNotFound),
		errors.Is(err, store.ErrLessonNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrLessonAlreadyShared),
		errors.Is(err, store.ErrLessonExists):
		return http.StatusConflict

	// Generated content the service refuses to return
	case errors.Is(err, service.ErrTurnTakingViolation):
		return http.StatusUnprocessableEntity

	// Upstream model failures
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrEmptyResponse):
		return http.StatusBadGateway

	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	case errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "Lesson generation timed out"

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)

	case errors.Is(err, domain.ErrUnsupportedTier):
		return "Unsupported proficiency level"

	case errors.Is(err, domain.ErrInvalidSessionLength):
		return "Session length must be 30 or 60 minutes"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"

	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid lesson request"

	case errors.Is(err, service.ErrLessonNotFound),
		errors.Is(err, store.ErrLessonNotFound):
		return "Lesson not found"

	case errors.Is(err, service.ErrLessonAlreadyShared):
		return "Lesson already shared"

	case errors.Is(err, store.ErrLessonExists):
		return "Lesson already exists"

	case errors.Is(err, service.ErrTurnTakingViolation):
		return "Generated dialogue did not give the learner a turn after every speaker"

	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrEmptyResponse):
		return "Lesson generation failed"

	case errors.Is(err, generation.ErrInvalidResponse):
		return "Lesson generation returned an unreadable lesson"

	case errors.Is(err, generation.ErrContentBlocked):
		return "Lesson request was blocked by content filters"

	case errors.Is(err, generation.ErrTransientFailure):
		return "Lesson generation is temporarily unavailable"

	default:
		return genericErrorMessage
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fieldName(fe), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// fieldName returns the dotted field path below the request struct, in
// snake case as it appears in JSON.
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return toSnake(ns)
}

// toSnake converts a Go field path such as "Topic.LessonNumber" or
// "Learner.ID" to its JSON form. Field names are ASCII.
func toSnake(s string) string {
	isUpper := func(c byte) bool { return c >= 'A' && c <= 'Z' }
	isLower := func(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') }

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isUpper(c) {
			b.WriteByte(c)
			continue
		}
		if i > 0 {
			prev := s[i-1]
			nextLower := i+1 < len(s) && isLower(s[i+1])
			if isLower(prev) || (isUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteByte(c + ('a' - 'A'))
	}
	return b.String()
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "invalid UUID"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gt", "gte":
		return "too small"
	default:
		return "validation failed"
	}
}

// HandleAPIError maps err to a status code and safe message, logs the
// redacted details and writes the error response. fallbackMsg replaces the
// generic message for unrecognized errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if msg == genericErrorMessage && fallbackMsg != "" {
		msg = fallbackMsg
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnprocessableEntity {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err, opts...)
}
