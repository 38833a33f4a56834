package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Lesson record validation errors
var (
	ErrEmptyLessonID        = errors.New("lesson ID cannot be empty")
	ErrEmptyLessonLearnerID = errors.New("lesson learner ID cannot be empty")
)

// LessonRecord is a persisted lesson, keyed by learner and lesson id.
// SharedAt is set once the lesson has been shared with the learner.
type LessonRecord struct {
	ID           uuid.UUID       `json:"id"`
	LearnerID    uuid.UUID       `json:"learner_id"`
	LessonNumber int             `json:"lesson_number"`
	Title        string          `json:"title"`
	Lesson       GeneratedLesson `json:"lesson"`
	CreatedAt    time.Time       `json:"created_at"`
	SharedAt     *time.Time      `json:"shared_at,omitempty"`
}

// NewLessonRecord wraps a generated lesson for persistence.
func NewLessonRecord(learnerID uuid.UUID, lessonNumber int, lesson GeneratedLesson) (*LessonRecord, error) {
	rec := &LessonRecord{
		ID:           uuid.New(),
		LearnerID:    learnerID,
		LessonNumber: lessonNumber,
		Title:        lesson.Title,
		Lesson:       lesson,
		CreatedAt:    time.Now().UTC(),
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Validate checks the record identity and the embedded lesson.
func (r *LessonRecord) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyLessonID
	}
	if r.LearnerID == uuid.Nil {
		return ErrEmptyLessonLearnerID
	}
	return r.Lesson.Validate()
}

// Shared reports whether the lesson has been shared with the learner.
func (r *LessonRecord) Shared() bool {
	return r.SharedAt != nil
}

// MarkShared records the time the lesson was shared with the learner.
func (r *LessonRecord) MarkShared(at time.Time) {
	t := at.UTC()
	r.SharedAt = &t
}
