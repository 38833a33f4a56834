package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/mocks"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/store"
	"github.com/phrazzld/scry-tutor/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInvalidator struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(learnerID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, learnerID)
}

func (r *recordingInvalidator) calls() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.ids...)
}

func sampleLesson(title string) domain.GeneratedLesson {
	ex, err := domain.NewExercise(domain.ExerciseDiscussion, "Talk", "Discuss", 30,
		domain.DiscussionContent{Questions: []string{"What do you buy?"}})
	if err != nil {
		panic(err)
	}
	return domain.GeneratedLesson{
		Title:      title,
		Difficulty: 2,
		Duration:   30,
		Exercises:  []domain.Exercise{ex},
	}
}

func newLessonService(t *testing.T, lessons store.LessonStore, inv ContinuityInvalidator) (*LessonService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	log, _ := logger.GetTestLogger(t)
	svc, err := NewLessonService(lessons, db, inv, log)
	require.NoError(t, err)
	return svc, mock
}

func TestNewLessonService_Validation(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = NewLessonService(nil, db, nil, nil)
	var svcErr *LessonServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "create_service", svcErr.Operation)

	_, err = NewLessonService(mocks.NewMockLessonStore(), nil, nil, nil)
	assert.Error(t, err)

	svc, err := NewLessonService(mocks.NewMockLessonStore(), db, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestSaveLesson(t *testing.T) {
	t.Parallel()

	lessons := mocks.NewMockLessonStore()
	inv := &recordingInvalidator{}
	svc, mock := newLessonService(t, lessons, inv)
	mock.ExpectBegin()
	mock.ExpectCommit()

	learnerID := uuid.New()
	record, err := svc.SaveLesson(context.Background(), learnerID, 4, sampleLesson("Market day"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.Equal(t, learnerID, record.LearnerID)
	assert.Equal(t, 4, record.LessonNumber)
	assert.Equal(t, "Market day", record.Title)
	assert.False(t, record.Shared())

	stored, err := lessons.GetByID(context.Background(), learnerID, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Title, stored.Title)
	assert.Equal(t, []uuid.UUID{learnerID}, inv.calls())
}

func TestSaveLesson_InvalidLesson(t *testing.T) {
	t.Parallel()

	inv := &recordingInvalidator{}
	svc, _ := newLessonService(t, mocks.NewMockLessonStore(), inv)

	_, err := svc.SaveLesson(context.Background(), uuid.New(), 1, sampleLesson(""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmptyLessonTitle))
	assert.Empty(t, inv.calls())
}

func TestSaveLesson_StoreFailureRollsBack(t *testing.T) {
	t.Parallel()

	lessons := mocks.NewMockLessonStore()
	lessons.CreateFn = func(ctx context.Context, record *domain.LessonRecord) error {
		return errors.New("connection reset")
	}
	inv := &recordingInvalidator{}
	svc, mock := newLessonService(t, lessons, inv)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.SaveLesson(context.Background(), uuid.New(), 1, sampleLesson("Market day"))
	require.Error(t, err)

	var svcErr *LessonServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "save_lesson", svcErr.Operation)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Empty(t, inv.calls())
}

func TestShareLesson(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()
	record, err := domain.NewLessonRecord(learnerID, 2, sampleLesson("Market day"))
	require.NoError(t, err)

	lessons := mocks.NewMockLessonStore(record)
	inv := &recordingInvalidator{}
	svc, mock := newLessonService(t, lessons, inv)
	sharedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return sharedAt }

	mock.ExpectBegin()
	mock.ExpectCommit()

	shared, err := svc.ShareLesson(context.Background(), learnerID, record.ID)
	require.NoError(t, err)
	require.NotNil(t, shared.SharedAt)
	assert.Equal(t, sharedAt, *shared.SharedAt)

	stored, err := lessons.GetByID(context.Background(), learnerID, record.ID)
	require.NoError(t, err)
	assert.True(t, stored.Shared())
	assert.Equal(t, []uuid.UUID{learnerID}, inv.calls())
}

func TestShareLesson_Errors(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		inv := &recordingInvalidator{}
		svc, mock := newLessonService(t, mocks.NewMockLessonStore(), inv)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.ShareLesson(context.Background(), learnerID, uuid.New())
		assert.Equal(t, ErrLessonNotFound, err)
		assert.Empty(t, inv.calls())
	})

	t.Run("other learner's lesson", func(t *testing.T) {
		t.Parallel()
		record, err := domain.NewLessonRecord(uuid.New(), 1, sampleLesson("Market day"))
		require.NoError(t, err)
		svc, mock := newLessonService(t, mocks.NewMockLessonStore(record), nil)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err = svc.ShareLesson(context.Background(), learnerID, record.ID)
		assert.Equal(t, ErrLessonNotFound, err)
	})

	t.Run("already shared", func(t *testing.T) {
		t.Parallel()
		record, err := domain.NewLessonRecord(learnerID, 1, sampleLesson("Market day"))
		require.NoError(t, err)
		record.MarkShared(time.Now())
		svc, mock := newLessonService(t, mocks.NewMockLessonStore(record), nil)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err = svc.ShareLesson(context.Background(), learnerID, record.ID)
		assert.Equal(t, ErrLessonAlreadyShared, err)
	})

	t.Run("update failure", func(t *testing.T) {
		t.Parallel()
		record, err := domain.NewLessonRecord(learnerID, 1, sampleLesson("Market day"))
		require.NoError(t, err)
		lessons := mocks.NewMockLessonStore(record)
		lessons.MarkSharedFn = func(ctx context.Context, learnerID, lessonID uuid.UUID, at time.Time) error {
			return sql.ErrConnDone
		}
		svc, mock := newLessonService(t, lessons, nil)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err = svc.ShareLesson(context.Background(), learnerID, record.ID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, sql.ErrConnDone))
	})
}

func TestGetLesson(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()
	record, err := domain.NewLessonRecord(learnerID, 1, sampleLesson("Market day"))
	require.NoError(t, err)
	svc, _ := newLessonService(t, mocks.NewMockLessonStore(record), nil)

	got, err := svc.GetLesson(context.Background(), learnerID, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)

	_, err = svc.GetLesson(context.Background(), learnerID, uuid.New())
	assert.Equal(t, ErrLessonNotFound, err)
}

func TestNewLessonServiceError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewLessonServiceError("op", "msg", nil))
	assert.Equal(t, ErrLessonNotFound, NewLessonServiceError("op", "msg", store.ErrLessonNotFound))
	assert.Equal(t, ErrLessonNotFound, NewLessonServiceError("op", "msg", ErrLessonNotFound))
	assert.Equal(t, ErrLessonAlreadyShared, NewLessonServiceError("op", "msg", ErrLessonAlreadyShared))

	base := errors.New("boom")
	err := NewLessonServiceError("save_lesson", "failed to save lesson", base)
	assert.Equal(t, "lesson service save_lesson failed: failed to save lesson: boom", err.Error())
	assert.True(t, errors.Is(err, base))
}

func TestTurnTakingError(t *testing.T) {
	t.Parallel()

	err := error(&TurnTakingError{Violations: make([]validation.TurnViolation, 2)})
	assert.True(t, errors.Is(err, ErrTurnTakingViolation))
	assert.Contains(t, err.Error(), "2 violation(s)")
}
