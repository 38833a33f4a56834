package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lessonColumnNames = []string{"id", "learner_id", "lesson_number", "title", "lesson", "created_at", "shared_at"}

func newMockStore(t *testing.T) (*PostgresLessonStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresLessonStore(db, nil), mock
}

func sampleLesson(t *testing.T) domain.GeneratedLesson {
	t.Helper()
	vocab, err := domain.NewExercise(domain.ExerciseVocabulary, "Words", "", 10, domain.VocabularyContent{
		Items: []domain.VocabularyItem{{Word: "hello", Definition: "a greeting"}},
	})
	require.NoError(t, err)
	return domain.GeneratedLesson{
		Title:      "Greetings",
		Difficulty: 1,
		Vocabulary: []string{"hello"},
		Exercises:  []domain.Exercise{vocab},
	}
}

func TestNewPostgresLessonStorePanicsOnNilDB(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewPostgresLessonStore(nil, nil) })
}

func TestPostgresLessonStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("inserts record", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		record, err := domain.NewLessonRecord(uuid.New(), 1, sampleLesson(t))
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO lessons").
			WithArgs(record.ID.String(), record.LearnerID.String(), sqlmock.AnyArg(), "Greetings",
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), record))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate id", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		record, err := domain.NewLessonRecord(uuid.New(), 1, sampleLesson(t))
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO lessons").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "lessons_pkey"})

		err = s.Create(context.Background(), record)
		assert.ErrorIs(t, err, store.ErrLessonExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("invalid record never reaches the database", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		err := s.Create(context.Background(), &domain.LessonRecord{ID: uuid.New(), LearnerID: uuid.New()})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, domain.ErrEmptyLessonTitle)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresLessonStore_GetByID(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		learnerID, lessonID := uuid.New(), uuid.New()
		lesson := sampleLesson(t)
		body, err := json.Marshal(lesson)
		require.NoError(t, err)
		created := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
		shared := created.Add(time.Hour)

		mock.ExpectQuery("SELECT (.+) FROM lessons WHERE id").
			WithArgs(lessonID.String(), learnerID.String()).
			WillReturnRows(sqlmock.NewRows(lessonColumnNames).
				AddRow(lessonID.String(), learnerID.String(), 4, "Greetings", body, created, shared))

		got, err := s.GetByID(context.Background(), learnerID, lessonID)
		require.NoError(t, err)
		assert.Equal(t, lessonID, got.ID)
		assert.Equal(t, learnerID, got.LearnerID)
		assert.Equal(t, 4, got.LessonNumber)
		assert.Equal(t, "Greetings", got.Lesson.Title)
		require.True(t, got.Shared())
		assert.True(t, shared.Equal(*got.SharedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		mock.ExpectQuery("SELECT (.+) FROM lessons WHERE id").WillReturnError(sql.ErrNoRows)

		_, err := s.GetByID(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, store.ErrLessonNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})

	t.Run("corrupt payload", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		id, learner := uuid.New(), uuid.New()
		mock.ExpectQuery("SELECT (.+) FROM lessons WHERE id").
			WillReturnRows(sqlmock.NewRows(lessonColumnNames).
				AddRow(id.String(), learner.String(), 1, "x", []byte("{not json"), time.Now(), nil))

		_, err := s.GetByID(context.Background(), learner, id)
		var storeErr *store.StoreError
		assert.True(t, errors.As(err, &storeErr))
	})
}

func TestPostgresLessonStore_ListRecentLessons(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	learnerID := uuid.New()
	body, err := json.Marshal(sampleLesson(t))
	require.NoError(t, err)
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(lessonColumnNames).
		AddRow(uuid.New().String(), learnerID.String(), 3, "Third", body, now, nil).
		AddRow(uuid.New().String(), learnerID.String(), 2, "Second", body, now.Add(-time.Hour), now.Add(-30*time.Minute))

	mock.ExpectQuery("SELECT (.+) FROM lessons WHERE learner_id (.+) ORDER BY created_at DESC LIMIT").
		WithArgs(learnerID.String(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	got, err := s.ListRecentLessons(context.Background(), learnerID, 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Third", got[0].Title)
	assert.False(t, got[0].Shared())
	assert.True(t, got[1].Shared())
	assert.NoError(t, mock.ExpectationsWereMet())

	empty, err := s.ListRecentLessons(context.Background(), learnerID, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostgresLessonStore_MarkShared(t *testing.T) {
	t.Parallel()

	t.Run("updates row", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		learnerID, lessonID := uuid.New(), uuid.New()
		mock.ExpectExec("UPDATE lessons SET shared_at").
			WithArgs(sqlmock.AnyArg(), lessonID.String(), learnerID.String()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.MarkShared(context.Background(), learnerID, lessonID, time.Now()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing lesson", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		mock.ExpectExec("UPDATE lessons SET shared_at").WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.MarkShared(context.Background(), uuid.New(), uuid.New(), time.Now())
		assert.ErrorIs(t, err, store.ErrLessonNotFound)
	})
}

func TestPostgresLessonStore_WithTx(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE lessons SET shared_at").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := NewPostgresLessonStore(db, nil)
	err = store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return s.WithTx(tx).MarkShared(ctx, uuid.New(), uuid.New(), time.Now())
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
