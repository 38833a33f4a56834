package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/store"
)

const lessonColumns = `id, learner_id, lesson_number, title, lesson, created_at, shared_at`

// PostgresLessonStore implements the store.LessonStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLessonStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLessonStore creates a new PostgreSQL implementation of the LessonStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresLessonStore(db store.DBTX, logger *slog.Logger) *PostgresLessonStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLessonStore{
		db:     db,
		logger: logger.With(slog.String("component", "lesson_store")),
	}
}

// Ensure PostgresLessonStore implements store.LessonStore interface
var _ store.LessonStore = (*PostgresLessonStore)(nil)

// WithTx implements store.LessonStore.WithTx
func (s *PostgresLessonStore) WithTx(tx *sql.Tx) store.LessonStore {
	return &PostgresLessonStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.LessonStore.Create
// Returns store.ErrLessonExists if a lesson with the same ID is already stored.
func (s *PostgresLessonStore) Create(ctx context.Context, record *domain.LessonRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("lesson validation failed during create",
			slog.String("error", err.Error()),
			slog.String("lesson_id", record.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	body, err := json.Marshal(record.Lesson)
	if err != nil {
		return store.NewStoreError("lesson", "create", "failed to encode lesson", err)
	}

	var sharedAt sql.NullTime
	if record.SharedAt != nil {
		sharedAt = sql.NullTime{Time: *record.SharedAt, Valid: true}
	}

	query := `
		INSERT INTO lessons (` + lessonColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.LearnerID,
		record.LessonNumber,
		record.Title,
		body,
		record.CreatedAt,
		sharedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate lesson id",
				slog.String("lesson_id", record.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrLessonExists, err)
		}
		log.Error("failed to create lesson",
			slog.String("error", err.Error()),
			slog.String("lesson_id", record.ID.String()),
			slog.String("learner_id", record.LearnerID.String()))
		return MapError(err)
	}

	log.Info("lesson created successfully",
		slog.String("lesson_id", record.ID.String()),
		slog.String("learner_id", record.LearnerID.String()),
		slog.Int("lesson_number", record.LessonNumber))
	return nil
}

// GetByID implements store.LessonStore.GetByID
// Returns store.ErrLessonNotFound if the learner has no such lesson.
func (s *PostgresLessonStore) GetByID(ctx context.Context, learnerID, lessonID uuid.UUID) (*domain.LessonRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1 AND learner_id = $2`
	record, err := scanLesson(s.db.QueryRowContext(ctx, query, lessonID, learnerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("lesson not found",
				slog.String("lesson_id", lessonID.String()),
				slog.String("learner_id", learnerID.String()))
			return nil, store.ErrLessonNotFound
		}
		log.Error("failed to get lesson by ID",
			slog.String("error", err.Error()),
			slog.String("lesson_id", lessonID.String()))
		return nil, MapError(err)
	}
	return record, nil
}

// ListRecentLessons implements store.LessonReader.ListRecentLessons
func (s *PostgresLessonStore) ListRecentLessons(ctx context.Context, learnerID uuid.UUID, limit int) ([]*domain.LessonRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		return []*domain.LessonRecord{}, nil
	}

	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE learner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, learnerID, limit)
	if err != nil {
		log.Error("failed to list recent lessons",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	records := make([]*domain.LessonRecord, 0, limit)
	for rows.Next() {
		record, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("recent lessons listed",
		slog.String("learner_id", learnerID.String()),
		slog.Int("count", len(records)))
	return records, nil
}

// MarkShared implements store.LessonStore.MarkShared
// Returns store.ErrLessonNotFound if the learner has no such lesson.
func (s *PostgresLessonStore) MarkShared(ctx context.Context, learnerID, lessonID uuid.UUID, at time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE lessons SET shared_at = $1 WHERE id = $2 AND learner_id = $3`
	result, err := s.db.ExecContext(ctx, query, at.UTC(), lessonID, learnerID)
	if err != nil {
		log.Error("failed to mark lesson shared",
			slog.String("error", err.Error()),
			slog.String("lesson_id", lessonID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrLessonNotFound); err != nil {
		return err
	}

	log.Info("lesson marked shared",
		slog.String("lesson_id", lessonID.String()),
		slog.String("learner_id", learnerID.String()))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLesson(row rowScanner) (*domain.LessonRecord, error) {
	var (
		record   domain.LessonRecord
		body     []byte
		sharedAt sql.NullTime
	)
	if err := row.Scan(
		&record.ID,
		&record.LearnerID,
		&record.LessonNumber,
		&record.Title,
		&body,
		&record.CreatedAt,
		&sharedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(body, &record.Lesson); err != nil {
		return nil, store.NewStoreError("lesson", "scan", "stored lesson is not valid JSON", err)
	}
	if sharedAt.Valid {
		record.MarkShared(sharedAt.Time)
	}
	return &record, nil
}
