package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-tutor/internal/domain"
)

// LessonReader is the read-only view of lesson history used by the
// vocabulary continuity tracker.
type LessonReader interface {
	// ListRecentLessons returns up to limit lesson records for the learner,
	// newest first. Returns an empty slice when the learner has no lessons.
	ListRecentLessons(ctx context.Context, learnerID uuid.UUID, limit int) ([]*domain.LessonRecord, error)
}

// LessonStore defines the interface for lesson record persistence.
type LessonStore interface {
	LessonReader

	// Create saves a new lesson record.
	// Returns validation errors from the domain LessonRecord if data is invalid.
	Create(ctx context.Context, record *domain.LessonRecord) error

	// GetByID retrieves a lesson record owned by the learner.
	// Returns ErrLessonNotFound if the record does not exist.
	GetByID(ctx context.Context, learnerID, lessonID uuid.UUID) (*domain.LessonRecord, error)

	// MarkShared records that the lesson was shared with the learner.
	// Returns ErrLessonNotFound if the record does not exist.
	MarkShared(ctx context.Context, learnerID, lessonID uuid.UUID, at time.Time) error

	// WithTx returns a LessonStore that runs its statements in tx.
	WithTx(tx *sql.Tx) LessonStore
}
