package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-tutor/internal/continuity"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/service"
	"github.com/phrazzld/scry-tutor/internal/validation"
)

// LearnerPayload describes the learner a lesson is generated for.
// ID is optional; without it no continuity lookup is made and the lesson
// cannot be saved.
type LearnerPayload struct {
	ID             string   `json:"id"              validate:"omitempty,uuid"`
	Name           string   `json:"name"            validate:"required,max=100"`
	TargetLanguage string   `json:"target_language" validate:"required,max=50"`
	NativeLanguage string   `json:"native_language" validate:"required,max=50"`
	AgeGroup       string   `json:"age_group"       validate:"omitempty,oneof=teen adult senior"`
	Tier           string   `json:"tier"            validate:"required"`
	Goals          []string `json:"goals"           validate:"max=10"`
	Occupation     string   `json:"occupation"      validate:"max=100"`
	Weaknesses     []string `json:"weaknesses"      validate:"max=10"`
	Interests      []string `json:"interests"       validate:"max=10"`
}

// VocabularyRefPayload is a word carried over from an earlier lesson.
type VocabularyRefPayload struct {
	Word       string `json:"word"       validate:"required"`
	Definition string `json:"definition"`
}

// TopicPayload is the subject of one lesson.
type TopicPayload struct {
	LessonNumber            int                    `json:"lesson_number"             validate:"required,gt=0"`
	Title                   string                 `json:"title"                     validate:"required,max=200"`
	Objective               string                 `json:"objective"                 validate:"max=500"`
	Vocabulary              []string               `json:"vocabulary"                validate:"max=30"`
	GrammarFocus            string                 `json:"grammar_focus"`
	Skills                  []string               `json:"skills"`
	Context                 string                 `json:"context"`
	Methodology             string                 `json:"methodology"               validate:"omitempty,oneof=CLT TBLT PPP TTT"`
	PreviousVocabulary      []VocabularyRefPayload `json:"previous_vocabulary"       validate:"dive"`
	ReusePreviousVocabulary bool                   `json:"reuse_previous_vocabulary"`
}

// GenerateLessonRequest is the body of POST /api/lessons and
// POST /api/lessons/template.
type GenerateLessonRequest struct {
	Learner         LearnerPayload `json:"learner"`
	Topic           TopicPayload   `json:"topic"`
	DurationMinutes int            `json:"duration_minutes" validate:"required,oneof=30 60"`
	// Save persists the lesson for the learner; requires learner.id.
	Save bool `json:"save"`
}

// BatchLessonRequest is the body of POST /api/lessons/batch.
type BatchLessonRequest struct {
	Learner         LearnerPayload `json:"learner"`
	Topics          []TopicPayload `json:"topics"           validate:"required,min=1,max=10,dive"`
	DurationMinutes int            `json:"duration_minutes" validate:"required,oneof=30 60"`
}

// LessonResponse is a generated lesson with how it was produced.
type LessonResponse struct {
	ID         string                 `json:"id,omitempty"`
	Lesson     domain.GeneratedLesson `json:"lesson"`
	Provider   string                 `json:"provider,omitempty"`
	Source     string                 `json:"source"`
	Report     validation.Report      `json:"report"`
	Continuity continuity.Context     `json:"continuity"`
}

// BatchItemResponse is one entry of a batch response. Error holds a safe
// message when the topic failed.
type BatchItemResponse struct {
	Topic  string          `json:"topic"`
	Lesson *LessonResponse `json:"lesson,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// BatchLessonResponse lists batch results in request order.
type BatchLessonResponse struct {
	Items []BatchItemResponse `json:"items"`
}

// LessonRecordResponse describes a stored lesson.
type LessonRecordResponse struct {
	ID           string                 `json:"id"`
	LearnerID    string                 `json:"learner_id"`
	LessonNumber int                    `json:"lesson_number"`
	Title        string                 `json:"title"`
	Lesson       domain.GeneratedLesson `json:"lesson"`
	CreatedAt    time.Time              `json:"created_at"`
	SharedAt     *time.Time             `json:"shared_at,omitempty"`
}

// toProfile converts the payload. Known tier codes are canonicalized; unknown
// ones are passed through so the level dispatcher can reject them.
func (p LearnerPayload) toProfile() domain.LearnerProfile {
	tier := domain.Tier(p.Tier)
	if parsed, err := domain.ParseTier(p.Tier); err == nil {
		tier = parsed
	}
	profile := domain.LearnerProfile{
		Name:           p.Name,
		TargetLanguage: p.TargetLanguage,
		NativeLanguage: p.NativeLanguage,
		AgeGroup:       p.AgeGroup,
		Tier:           tier,
		Goals:          p.Goals,
		Occupation:     p.Occupation,
		Weaknesses:     p.Weaknesses,
		Interests:      p.Interests,
	}
	if id, err := uuid.Parse(p.ID); err == nil {
		profile.ID = id
	}
	return profile
}

func (t TopicPayload) toTopic() domain.LearningTopic {
	topic := domain.LearningTopic{
		LessonNumber:            t.LessonNumber,
		Title:                   t.Title,
		Objective:               t.Objective,
		Vocabulary:              t.Vocabulary,
		GrammarFocus:            t.GrammarFocus,
		Skills:                  t.Skills,
		Context:                 t.Context,
		Methodology:             domain.Methodology(t.Methodology),
		ReusePreviousVocabulary: t.ReusePreviousVocabulary,
	}
	for _, ref := range t.PreviousVocabulary {
		topic.PreviousVocabulary = append(topic.PreviousVocabulary, domain.VocabularyRef{
			Word:       ref.Word,
			Definition: ref.Definition,
		})
	}
	return topic
}

func lessonToResponse(res *service.Result) *LessonResponse {
	return &LessonResponse{
		Lesson:     res.Lesson,
		Provider:   res.Provider,
		Source:     res.Source,
		Report:     res.Report,
		Continuity: res.Continuity,
	}
}

func recordToResponse(rec *domain.LessonRecord) LessonRecordResponse {
	return LessonRecordResponse{
		ID:           rec.ID.String(),
		LearnerID:    rec.LearnerID.String(),
		LessonNumber: rec.LessonNumber,
		Title:        rec.Title,
		Lesson:       rec.Lesson,
		CreatedAt:    rec.CreatedAt,
		SharedAt:     rec.SharedAt,
	}
}
