package continuity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/store"
)

const (
	// Window is the number of most recent lessons considered.
	Window = 3

	// MaxLessonsSinceShared is the largest gap for which vocabulary is reused.
	MaxLessonsSinceShared = 2
)

// Context is the continuity information handed to the prompt builder.
type Context struct {
	PreviousLessonTitle    string                 `json:"previous_lesson_title,omitempty"`
	PreviousVocabulary     []domain.VocabularyRef `json:"previous_vocabulary"`
	LessonsSinceLastShared int                    `json:"lessons_since_last_shared"`
	ShouldReuse            bool                   `json:"should_reuse"`
}

// Empty is the default used when there is no usable history.
func Empty() Context {
	return Context{PreviousVocabulary: []domain.VocabularyRef{}}
}

// Lookup is implemented by Tracker and CachedTracker.
type Lookup interface {
	GetContinuityContext(ctx context.Context, learnerID uuid.UUID) Context
}

// Tracker computes continuity context from lesson history.
type Tracker struct {
	lessons store.LessonReader
	logger  *slog.Logger
}

var _ Lookup = (*Tracker)(nil)

// NewTracker creates a Tracker reading from lessons.
func NewTracker(lessons store.LessonReader, logger *slog.Logger) (*Tracker, error) {
	if lessons == nil {
		return nil, errors.New("lessons cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		lessons: lessons,
		logger:  logger.With("component", "continuity_tracker"),
	}, nil
}

// GetContinuityContext returns the continuity context for the learner. It never
// fails; store errors are logged and yield Empty().
func (t *Tracker) GetContinuityContext(ctx context.Context, learnerID uuid.UUID) Context {
	c, err := t.lookup(ctx, learnerID)
	if err != nil {
		t.logger.WarnContext(ctx, "continuity lookup failed, continuing without previous vocabulary",
			"learner_id", learnerID,
			"error", err)
		return Empty()
	}
	return c
}

func (t *Tracker) lookup(ctx context.Context, learnerID uuid.UUID) (Context, error) {
	if learnerID == uuid.Nil {
		return Empty(), nil
	}

	records, err := t.lessons.ListRecentLessons(ctx, learnerID, Window)
	if err != nil {
		return Empty(), fmt.Errorf("failed to list recent lessons: %w", err)
	}
	if len(records) > Window {
		records = records[:Window]
	}

	c := FromHistory(records)
	t.logger.DebugContext(ctx, "continuity context computed",
		"learner_id", learnerID,
		"records_considered", len(records),
		"lessons_since_last_shared", c.LessonsSinceLastShared,
		"should_reuse", c.ShouldReuse,
		"previous_vocabulary", len(c.PreviousVocabulary))
	return c, nil
}

// FromHistory computes the continuity context from records ordered newest
// first. The gap is the number of lessons created after the newest shared one;
// with no shared lesson in records the gap is len(records) and nothing is
// reused.
func FromHistory(records []*domain.LessonRecord) Context {
	c := Empty()
	for i, r := range records {
		if r == nil || !r.Shared() {
			continue
		}
		c.LessonsSinceLastShared = i
		c.ShouldReuse = i <= MaxLessonsSinceShared
		if c.ShouldReuse {
			c.PreviousLessonTitle = r.Title
			c.PreviousVocabulary = VocabularyOf(r.Lesson)
		}
		return c
	}
	c.LessonsSinceLastShared = len(records)
	return c
}

// VocabularyOf extracts the words taught by the lesson's first vocabulary
// exercise. When that exercise is missing or unreadable the lesson's
// vocabulary list is used without definitions.
func VocabularyOf(lesson domain.GeneratedLesson) []domain.VocabularyRef {
	refs := []domain.VocabularyRef{}

	if i := lesson.FirstExercise(domain.ExerciseVocabulary); i >= 0 {
		if content, err := lesson.Exercises[i].VocabularyContent(); err == nil && len(content.Items) > 0 {
			for _, item := range content.Items {
				if w := strings.TrimSpace(item.Word); w != "" {
					refs = append(refs, domain.VocabularyRef{Word: w, Definition: item.Definition})
				}
			}
			return refs
		}
	}

	for _, w := range lesson.Vocabulary {
		if w = strings.TrimSpace(w); w != "" {
			refs = append(refs, domain.VocabularyRef{Word: w})
		}
	}
	return refs
}
