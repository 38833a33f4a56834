package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-tutor/internal/continuity"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/jsonrepair"
	"github.com/phrazzld/scry-tutor/internal/level"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/prompt"
	"github.com/phrazzld/scry-tutor/internal/validation"
	"golang.org/x/sync/errgroup"
)

// Lesson sources reported in Result.Source.
const (
	SourceProvider = "provider"
	SourceTemplate = "template"
)

// defaultBatchConcurrency bounds GenerateBatch when no limit is configured.
const defaultBatchConcurrency = 2

// Request is one lesson generation request.
type Request struct {
	Profile domain.LearnerProfile
	Topic   domain.LearningTopic
	Length  domain.SessionLength
}

// Validate checks the request fields the pipeline depends on.
func (r Request) Validate() error {
	if err := r.Profile.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := r.Topic.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if !r.Length.Valid() {
		return fmt.Errorf("%w: %w: %d minutes", ErrInvalidRequest, domain.ErrInvalidSessionLength, r.Length.Minutes())
	}
	return nil
}

// Result is a generated lesson together with how it was produced.
type Result struct {
	Lesson     domain.GeneratedLesson `json:"lesson"`
	Provider   string                 `json:"provider,omitempty"`
	Source     string                 `json:"source"`
	Report     validation.Report      `json:"report"`
	Continuity continuity.Context     `json:"continuity"`
}

// BatchItem is the outcome for one topic of a batch. Exactly one of Result
// and Err is set.
type BatchItem struct {
	Topic  domain.LearningTopic
	Result *Result
	Err    error
}

// GenerationOptions tune the pipeline.
type GenerationOptions struct {
	Params generation.Params
	Retry  generation.RetryPolicy
	// PipelineTimeout bounds one lesson end to end. Zero means no limit
	// beyond the caller's context.
	PipelineTimeout time.Duration
	// FallbackToTemplate returns the tier's deterministic lesson when every
	// provider fails or the response cannot be decoded.
	FallbackToTemplate bool
	BatchConcurrency   int
}

// GenerationService produces lessons for learners.
type GenerationService struct {
	dispatcher *level.Dispatcher
	generator  generation.TextGenerator
	prompts    *prompt.Builder
	validator  *validation.Validator
	continuity continuity.Lookup
	opts       GenerationOptions
	logger     *slog.Logger
}

// NewGenerationService creates a GenerationService. lookup may be nil, in
// which case lessons are generated without continuity context.
func NewGenerationService(
	dispatcher *level.Dispatcher,
	generator generation.TextGenerator,
	prompts *prompt.Builder,
	validator *validation.Validator,
	lookup continuity.Lookup,
	opts GenerationOptions,
	logger *slog.Logger,
) (*GenerationService, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher cannot be nil")
	}
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if prompts == nil {
		return nil, errors.New("prompt builder cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if validator == nil {
		validator = validation.NewValidator(logger, validation.EnforceLog)
	}
	if opts.BatchConcurrency < 1 {
		opts.BatchConcurrency = defaultBatchConcurrency
	}

	return &GenerationService{
		dispatcher: dispatcher,
		generator:  generator,
		prompts:    prompts,
		validator:  validator,
		continuity: lookup,
		opts:       opts,
		logger:     logger.With("component", "generation_service"),
	}, nil
}

// GenerateLesson runs the full pipeline for one lesson.
func (s *GenerationService) GenerateLesson(ctx context.Context, req Request) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Unknown tiers fail before any other work.
	policy, err := s.dispatcher.Policy(req.Profile.Tier)
	if err != nil {
		return nil, err
	}
	req.Profile.Tier = policy.Tier()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if s.opts.PipelineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.PipelineTimeout)
		defer cancel()
	}

	cont := continuity.Empty()
	if s.continuity != nil && req.Profile.ID != uuid.Nil {
		cont = s.continuity.GetContinuityContext(ctx, req.Profile.ID)
	}

	topic := req.Topic
	topic.Vocabulary = policy.VocabularyForLevel(topic.Vocabulary)

	in := prompt.Input{
		Profile:         req.Profile,
		Topic:           topic,
		Length:          req.Length,
		VocabularyGuide: policy.VocabularyGuide(),
	}
	switch {
	case topic.ReusePreviousVocabulary && len(topic.PreviousVocabulary) > 0:
		in.PreviousVocabulary = topic.PreviousVocabulary
	case cont.ShouldReuse:
		in.PreviousLessonTitle = cont.PreviousLessonTitle
		in.PreviousVocabulary = cont.PreviousVocabulary
	}

	text, err := s.prompts.Build(in)
	if err != nil {
		return nil, fmt.Errorf("failed to build lesson prompt: %w", err)
	}

	log.InfoContext(ctx, "generating lesson",
		"tier", policy.Tier(),
		"lesson_number", topic.LessonNumber,
		"minutes", req.Length.Minutes(),
		"previous_vocabulary", len(in.PreviousVocabulary))

	generated, err := generation.Retry(ctx, s.opts.Retry, log, func(ctx context.Context) (generation.Result, error) {
		return s.generator.Generate(ctx, text, s.opts.Params)
	})
	if err != nil {
		return s.fallback(ctx, log, policy, req, cont, err)
	}

	lesson, err := decodeLesson(generated.Text, req.Length)
	if err != nil {
		log.WarnContext(ctx, "failed to decode lesson response",
			"provider", generated.Provider,
			"error", err)
		return s.fallback(ctx, log, policy, req, cont, err)
	}

	report := s.validator.Validate(ctx, &lesson, req.Profile)
	if report.HasTurnViolations() && s.validator.Mode() == validation.EnforceReject {
		return nil, &TurnTakingError{Violations: report.TurnViolations}
	}

	log.InfoContext(ctx, "lesson generated",
		"provider", generated.Provider,
		"exercises", len(lesson.Exercises),
		"blanked_synonyms", len(report.BlankedSynonyms),
		"cleared_expressions", len(report.ClearedExpressions),
		"turn_violations", len(report.TurnViolations))

	return &Result{
		Lesson:     lesson,
		Provider:   generated.Provider,
		Source:     SourceProvider,
		Report:     report,
		Continuity: cont,
	}, nil
}

// GenerateTemplateLesson returns the tier's deterministic lesson without
// calling any provider.
func (s *GenerationService) GenerateTemplateLesson(ctx context.Context, req Request) (*Result, error) {
	policy, err := s.dispatcher.Policy(req.Profile.Tier)
	if err != nil {
		return nil, err
	}
	req.Profile.Tier = policy.Tier()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.templateResult(ctx, policy, req, continuity.Empty()), nil
}

// GenerateBatch generates one lesson per topic with bounded concurrency. Each
// topic runs an independent pipeline; a failure is recorded in its item and
// does not cancel the others. Items are returned in topic order.
func (s *GenerationService) GenerateBatch(ctx context.Context, profile domain.LearnerProfile, topics []domain.LearningTopic, length domain.SessionLength) ([]BatchItem, error) {
	policy, err := s.dispatcher.Policy(profile.Tier)
	if err != nil {
		return nil, err
	}
	profile.Tier = policy.Tier()
	if len(topics) == 0 {
		return nil, fmt.Errorf("%w: no topics", ErrInvalidRequest)
	}

	items := make([]BatchItem, len(topics))
	var g errgroup.Group
	g.SetLimit(s.opts.BatchConcurrency)

	for i, topic := range topics {
		i, topic := i, topic
		g.Go(func() error {
			res, err := s.GenerateLesson(ctx, Request{Profile: profile, Topic: topic, Length: length})
			items[i] = BatchItem{Topic: topic, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return items, nil
}

// fallback decides whether a pipeline failure is answered with the template
// lesson or returned.
func (s *GenerationService) fallback(
	ctx context.Context,
	log *slog.Logger,
	policy level.Policy,
	req Request,
	cont continuity.Context,
	cause error,
) (*Result, error) {
	recoverable := errors.Is(cause, generation.ErrGenerationFailed) || errors.Is(cause, generation.ErrInvalidResponse)
	if !s.opts.FallbackToTemplate || !recoverable || ctx.Err() != nil {
		return nil, cause
	}

	log.WarnContext(ctx, "falling back to template lesson", "error", cause)
	return s.templateResult(ctx, policy, req, cont), nil
}

func (s *GenerationService) templateResult(ctx context.Context, policy level.Policy, req Request, cont continuity.Context) *Result {
	lesson := policy.GenerateLesson(req.Profile, req.Topic, req.Length)
	report := s.validator.Validate(ctx, &lesson, req.Profile)
	return &Result{
		Lesson:     lesson,
		Source:     SourceTemplate,
		Report:     report,
		Continuity: cont,
	}
}

// decodeLesson repairs and binds the raw model output and checks the lesson
// structure. Every failure wraps generation.ErrInvalidResponse.
func decodeLesson(raw string, length domain.SessionLength) (domain.GeneratedLesson, error) {
	var lesson domain.GeneratedLesson
	if err := jsonrepair.DecodeInto(raw, &lesson); err != nil {
		return domain.GeneratedLesson{}, fmt.Errorf("%w: %w", generation.ErrInvalidResponse, err)
	}
	if lesson.Duration == 0 {
		lesson.Duration = length.Minutes()
	}
	if err := lesson.Validate(); err != nil {
		return domain.GeneratedLesson{}, fmt.Errorf("%w: %w", generation.ErrInvalidResponse, err)
	}
	return lesson, nil
}
