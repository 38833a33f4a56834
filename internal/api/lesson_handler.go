package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-tutor/internal/api/shared"
	"github.com/phrazzld/scry-tutor/internal/continuity"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/service"
)

// LessonGenerator is the part of service.GenerationService the handlers use.
type LessonGenerator interface {
	GenerateLesson(ctx context.Context, req service.Request) (*service.Result, error)
	GenerateTemplateLesson(ctx context.Context, req service.Request) (*service.Result, error)
	GenerateBatch(ctx context.Context, profile domain.LearnerProfile, topics []domain.LearningTopic, length domain.SessionLength) ([]service.BatchItem, error)
}

// LessonRecorder is the part of service.LessonService the handlers use.
type LessonRecorder interface {
	SaveLesson(ctx context.Context, learnerID uuid.UUID, lessonNumber int, lesson domain.GeneratedLesson) (*domain.LessonRecord, error)
	GetLesson(ctx context.Context, learnerID, lessonID uuid.UUID) (*domain.LessonRecord, error)
	ShareLesson(ctx context.Context, learnerID, lessonID uuid.UUID) (*domain.LessonRecord, error)
}

// LessonHandler handles lesson HTTP requests.
type LessonHandler struct {
	generator  LessonGenerator
	lessons    LessonRecorder
	continuity continuity.Lookup
	logger     *slog.Logger
}

// NewLessonHandler creates a LessonHandler.
func NewLessonHandler(generator LessonGenerator, lessons LessonRecorder, lookup continuity.Lookup, logger *slog.Logger) *LessonHandler {
	if generator == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("generator cannot be nil for LessonHandler")
	}
	if lessons == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("lessons cannot be nil for LessonHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LessonHandler")
	}

	return &LessonHandler{
		generator:  generator,
		lessons:    lessons,
		continuity: lookup,
		logger:     logger.With(slog.String("component", "lesson_handler")),
	}
}

// GenerateLesson handles POST /api/lessons. With save set, the lesson is
// stored for the learner and 201 Created is returned.
func (h *LessonHandler) GenerateLesson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req GenerateLessonRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	svcReq := service.Request{
		Profile: req.Learner.toProfile(),
		Topic:   req.Topic.toTopic(),
		Length:  domain.SessionLength(req.DurationMinutes),
	}
	if req.Save && svcReq.Profile.ID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid learner.id: required to save a lesson")
		return
	}

	res, err := h.generator.GenerateLesson(r.Context(), svcReq)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate lesson")
		return
	}

	resp := lessonToResponse(res)
	if !req.Save {
		shared.RespondWithJSON(w, r, http.StatusOK, resp)
		return
	}

	record, err := h.lessons.SaveLesson(r.Context(), svcReq.Profile.ID, svcReq.Topic.LessonNumber, res.Lesson)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save lesson")
		return
	}
	log.Debug("lesson generated and saved",
		slog.String("lesson_id", record.ID.String()),
		slog.String("source", res.Source))

	resp.ID = record.ID.String()
	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// GenerateTemplateLesson handles POST /api/lessons/template.
func (h *LessonHandler) GenerateTemplateLesson(w http.ResponseWriter, r *http.Request) {
	var req GenerateLessonRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.generator.GenerateTemplateLesson(r.Context(), service.Request{
		Profile: req.Learner.toProfile(),
		Topic:   req.Topic.toTopic(),
		Length:  domain.SessionLength(req.DurationMinutes),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build template lesson")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, lessonToResponse(res))
}

// GenerateBatch handles POST /api/lessons/batch. Per-topic failures are
// reported inside the response; the request itself succeeds.
func (h *LessonHandler) GenerateBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req BatchLessonRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	topics := make([]domain.LearningTopic, len(req.Topics))
	for i, t := range req.Topics {
		topics[i] = t.toTopic()
	}

	items, err := h.generator.GenerateBatch(r.Context(), req.Learner.toProfile(), topics, domain.SessionLength(req.DurationMinutes))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate lessons")
		return
	}

	resp := BatchLessonResponse{Items: make([]BatchItemResponse, len(items))}
	for i, item := range items {
		resp.Items[i].Topic = item.Topic.Title
		if item.Err != nil {
			log.Warn("batch topic failed",
				slog.String("topic", item.Topic.Title),
				slog.Int("status_code", MapErrorToStatusCode(item.Err)))
			resp.Items[i].Error = GetSafeErrorMessage(item.Err)
			continue
		}
		resp.Items[i].Lesson = lessonToResponse(item.Result)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetLesson handles GET /api/learners/{learnerID}/lessons/{lessonID}.
func (h *LessonHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ids, ok := handlePathUUIDs(w, r, log, "learnerID", "lessonID")
	if !ok {
		return
	}

	record, err := h.lessons.GetLesson(r.Context(), ids[0], ids[1])
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get lesson")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, recordToResponse(record))
}

// ShareLesson handles POST /api/learners/{learnerID}/lessons/{lessonID}/share.
func (h *LessonHandler) ShareLesson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ids, ok := handlePathUUIDs(w, r, log, "learnerID", "lessonID")
	if !ok {
		return
	}

	record, err := h.lessons.ShareLesson(r.Context(), ids[0], ids[1])
	if err != nil {
		HandleAPIError(w, r, err, "Failed to share lesson")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, recordToResponse(record))
}

// GetContinuity handles GET /api/learners/{learnerID}/continuity.
func (h *LessonHandler) GetContinuity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ids, ok := handlePathUUIDs(w, r, log, "learnerID")
	if !ok {
		return
	}

	c := continuity.Empty()
	if h.continuity != nil {
		c = h.continuity.GetContinuityContext(r.Context(), ids[0])
	}
	shared.RespondWithJSON(w, r, http.StatusOK, c)
}
