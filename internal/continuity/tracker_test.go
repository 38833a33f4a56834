package continuity_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-tutor/internal/continuity"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/mocks"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func lessonRecord(t *testing.T, learnerID uuid.UUID, n int, shared bool, words ...string) *domain.LessonRecord {
	t.Helper()

	items := make([]domain.VocabularyItem, 0, len(words))
	for _, w := range words {
		items = append(items, domain.VocabularyItem{Word: w, Definition: "meaning of " + w})
	}
	vocab, err := domain.NewExercise(domain.ExerciseVocabulary, "Words", "", 10, domain.VocabularyContent{Items: items})
	require.NoError(t, err)

	rec, err := domain.NewLessonRecord(learnerID, n, domain.GeneratedLesson{
		Title:      "Lesson " + string(rune('A'+n)),
		Difficulty: 1,
		Vocabulary: words,
		Exercises:  []domain.Exercise{vocab},
	})
	require.NoError(t, err)
	rec.CreatedAt = baseTime.Add(time.Duration(n) * time.Hour)
	if shared {
		rec.MarkShared(rec.CreatedAt.Add(time.Minute))
	}
	return rec
}

func newTracker(t *testing.T, lessons store.LessonReader, log *slog.Logger) *continuity.Tracker {
	t.Helper()
	tracker, err := continuity.NewTracker(lessons, log)
	require.NoError(t, err)
	return tracker
}

func TestNewTracker_RequiresLessonReader(t *testing.T) {
	t.Parallel()

	tracker, err := continuity.NewTracker(nil, nil)
	assert.Error(t, err)
	assert.Nil(t, tracker)

	cached, err := continuity.NewCachedTracker(nil, 8, time.Minute, nil)
	assert.Error(t, err)
	assert.Nil(t, cached)

	cached, err = continuity.NewCachedTracker(newTracker(t, mocks.NewMockLessonStore(), nil), 0, time.Minute, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cached.Len())
}

func TestTracker_ReusesImmediatelyPrecedingSharedLesson(t *testing.T) {
	t.Parallel()

	learner := uuid.New()
	store := mocks.NewMockLessonStore(
		lessonRecord(t, learner, 1, true, "old"),
		lessonRecord(t, learner, 2, true, "hello", "family"),
	)
	tracker := newTracker(t, store, nil)

	got := tracker.GetContinuityContext(context.Background(), learner)
	assert.True(t, got.ShouldReuse)
	assert.Equal(t, 0, got.LessonsSinceLastShared)
	assert.Equal(t, "Lesson C", got.PreviousLessonTitle)
	assert.Equal(t, []domain.VocabularyRef{
		{Word: "hello", Definition: "meaning of hello"},
		{Word: "family", Definition: "meaning of family"},
	}, got.PreviousVocabulary)
}

func TestTracker_GapWithinWindow(t *testing.T) {
	t.Parallel()

	learner := uuid.New()
	store := mocks.NewMockLessonStore(
		lessonRecord(t, learner, 1, true, "hello"),
		lessonRecord(t, learner, 2, false, "eat"),
		lessonRecord(t, learner, 3, false, "drink"),
	)

	got := newTracker(t, store, nil).GetContinuityContext(context.Background(), learner)
	assert.True(t, got.ShouldReuse)
	assert.Equal(t, 2, got.LessonsSinceLastShared)
	assert.Equal(t, []domain.VocabularyRef{{Word: "hello", Definition: "meaning of hello"}}, got.PreviousVocabulary)
}

func TestTracker_NoReuseAfterThreeLessons(t *testing.T) {
	t.Parallel()

	learner := uuid.New()
	store := mocks.NewMockLessonStore(
		lessonRecord(t, learner, 1, true, "hello"),
		lessonRecord(t, learner, 2, false, "eat"),
		lessonRecord(t, learner, 3, false, "drink"),
		lessonRecord(t, learner, 4, false, "sleep"),
	)

	got := newTracker(t, store, nil).GetContinuityContext(context.Background(), learner)
	assert.False(t, got.ShouldReuse)
	assert.Equal(t, 3, got.LessonsSinceLastShared)
	assert.Empty(t, got.PreviousVocabulary)
	assert.NotNil(t, got.PreviousVocabulary)
	assert.Empty(t, got.PreviousLessonTitle)
}

func TestTracker_NoHistory(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockLessonStore()
	tracker := newTracker(t, store, nil)

	assert.Equal(t, continuity.Empty(), tracker.GetContinuityContext(context.Background(), uuid.New()))
	assert.Equal(t, continuity.Empty(), tracker.GetContinuityContext(context.Background(), uuid.Nil))
	assert.Equal(t, 1, store.ListCalls, "nil learner must not query the store")
}

func TestTracker_StoreErrorIsAbsorbed(t *testing.T) {
	t.Parallel()

	log, buf := logger.GetTestLogger(t)
	store := &mocks.MockLessonStore{
		ListRecentLessonsFn: func(context.Context, uuid.UUID, int) ([]*domain.LessonRecord, error) {
			return nil, errors.New("connection refused")
		},
	}

	got := newTracker(t, store, log).GetContinuityContext(context.Background(), uuid.New())
	assert.Equal(t, continuity.Empty(), got)
	logger.AssertLogContains(t, buf, "continuity lookup failed")
}

func TestTracker_RequestsWindow(t *testing.T) {
	t.Parallel()

	var gotLimit int
	store := &mocks.MockLessonStore{
		ListRecentLessonsFn: func(_ context.Context, _ uuid.UUID, limit int) ([]*domain.LessonRecord, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	newTracker(t, store, nil).GetContinuityContext(context.Background(), uuid.New())
	assert.Equal(t, continuity.Window, gotLimit)
}

func TestVocabularyOf_FallsBackToLessonVocabulary(t *testing.T) {
	t.Parallel()

	lesson := domain.GeneratedLesson{
		Vocabulary: []string{"bus", " ", "train"},
		Exercises:  []domain.Exercise{{Type: domain.ExerciseGrammar}},
	}
	assert.Equal(t, []domain.VocabularyRef{{Word: "bus"}, {Word: "train"}}, continuity.VocabularyOf(lesson))
}

func TestCachedTracker(t *testing.T) {
	t.Parallel()

	learner := uuid.New()
	store := mocks.NewMockLessonStore(lessonRecord(t, learner, 1, true, "hello"))
	cached, err := continuity.NewCachedTracker(newTracker(t, store, nil), 8, time.Minute, nil)
	require.NoError(t, err)
	ctx := context.Background()

	first := cached.GetContinuityContext(ctx, learner)
	second := cached.GetContinuityContext(ctx, learner)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.ListCalls)
	assert.Equal(t, 1, cached.Len())

	// Mutating a returned context must not leak into the cache.
	second.PreviousVocabulary[0].Word = "changed"
	assert.Equal(t, "hello", cached.GetContinuityContext(ctx, learner).PreviousVocabulary[0].Word)

	newer := lessonRecord(t, learner, 2, false, "eat")
	require.NoError(t, store.Create(ctx, newer))
	cached.Invalidate(learner)

	after := cached.GetContinuityContext(ctx, learner)
	assert.Equal(t, 2, store.ListCalls)
	assert.Equal(t, 1, after.LessonsSinceLastShared)
}

func TestCachedTracker_DoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	store := &mocks.MockLessonStore{
		ListRecentLessonsFn: func(context.Context, uuid.UUID, int) ([]*domain.LessonRecord, error) {
			calls++
			return nil, errors.New("timeout")
		},
	}
	cached, err := continuity.NewCachedTracker(newTracker(t, store, nil), 8, time.Minute, nil)
	require.NoError(t, err)

	learner := uuid.New()
	cached.GetContinuityContext(context.Background(), learner)
	cached.GetContinuityContext(context.Background(), learner)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, cached.Len())
}
