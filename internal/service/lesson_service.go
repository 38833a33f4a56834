package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/store"
)

// ContinuityInvalidator drops cached continuity context for a learner.
// continuity.CachedTracker satisfies it.
type ContinuityInvalidator interface {
	Invalidate(learnerID uuid.UUID)
}

// LessonService persists generated lessons and records sharing.
type LessonService struct {
	lessons     store.LessonStore
	db          *sql.DB
	invalidator ContinuityInvalidator
	logger      *slog.Logger
	now         func() time.Time
}

// NewLessonService creates a LessonService. invalidator may be nil when no
// continuity cache is in use.
func NewLessonService(lessons store.LessonStore, db *sql.DB, invalidator ContinuityInvalidator, logger *slog.Logger) (*LessonService, error) {
	if lessons == nil {
		return nil, &LessonServiceError{
			Operation: "create_service",
			Message:   "lesson store cannot be nil",
		}
	}
	if db == nil {
		return nil, &LessonServiceError{
			Operation: "create_service",
			Message:   "db cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LessonService{
		lessons:     lessons,
		db:          db,
		invalidator: invalidator,
		logger:      logger.With("component", "lesson_service"),
		now:         time.Now,
	}, nil
}

// SaveLesson stores a generated lesson for the learner.
func (s *LessonService) SaveLesson(ctx context.Context, learnerID uuid.UUID, lessonNumber int, lesson domain.GeneratedLesson) (*domain.LessonRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	record, err := domain.NewLessonRecord(learnerID, lessonNumber, lesson)
	if err != nil {
		return nil, NewLessonServiceError("save_lesson", "invalid lesson record", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.lessons.WithTx(tx).Create(ctx, record)
	})
	if err != nil {
		log.ErrorContext(ctx, "failed to save lesson",
			"learner_id", learnerID,
			"lesson_number", lessonNumber,
			"error", err)
		return nil, NewLessonServiceError("save_lesson", "failed to save lesson", err)
	}

	s.invalidate(learnerID)
	log.InfoContext(ctx, "lesson saved",
		"learner_id", learnerID,
		"lesson_id", record.ID,
		"lesson_number", lessonNumber)
	return record, nil
}

// GetLesson returns a stored lesson owned by the learner.
func (s *LessonService) GetLesson(ctx context.Context, learnerID, lessonID uuid.UUID) (*domain.LessonRecord, error) {
	record, err := s.lessons.GetByID(ctx, learnerID, lessonID)
	if err != nil {
		return nil, NewLessonServiceError("get_lesson", "failed to get lesson", err)
	}
	return record, nil
}

// ShareLesson marks a stored lesson as shared with the learner. Sharing a
// lesson twice returns ErrLessonAlreadyShared.
func (s *LessonService) ShareLesson(ctx context.Context, learnerID, lessonID uuid.UUID) (*domain.LessonRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var shared *domain.LessonRecord
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.lessons.WithTx(tx)

		record, err := txStore.GetByID(ctx, learnerID, lessonID)
		if err != nil {
			return err
		}
		if record.Shared() {
			return ErrLessonAlreadyShared
		}

		at := s.now()
		if err := txStore.MarkShared(ctx, learnerID, lessonID, at); err != nil {
			return err
		}
		record.MarkShared(at)
		shared = record
		return nil
	})
	if err != nil {
		if !errors.Is(err, store.ErrLessonNotFound) && !errors.Is(err, ErrLessonAlreadyShared) {
			log.ErrorContext(ctx, "failed to share lesson",
				"learner_id", learnerID,
				"lesson_id", lessonID,
				"error", err)
		}
		return nil, NewLessonServiceError("share_lesson", "failed to share lesson", err)
	}

	s.invalidate(learnerID)
	log.InfoContext(ctx, "lesson shared",
		"learner_id", learnerID,
		"lesson_id", lessonID)
	return shared, nil
}

func (s *LessonService) invalidate(learnerID uuid.UUID) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(learnerID)
	}
}
