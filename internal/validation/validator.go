package validation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-tutor/internal/domain"
)

// EnforcementMode decides what the caller does with turn-taking violations.
type EnforcementMode string

const (
	// EnforceLog reports violations in logs and the Report only.
	EnforceLog EnforcementMode = "log"
	// EnforceReject asks the caller to reject lessons with violations.
	EnforceReject EnforcementMode = "reject"
)

// ParseEnforcementMode converts a configuration value to an EnforcementMode.
func ParseEnforcementMode(s string) (EnforcementMode, error) {
	switch EnforcementMode(s) {
	case EnforceLog, "":
		return EnforceLog, nil
	case EnforceReject:
		return EnforceReject, nil
	}
	return "", fmt.Errorf("invalid dialogue enforcement mode %q", s)
}

// Report summarizes what validation found and changed.
type Report struct {
	BlankedSynonyms []BlankedSynonym `json:"blanked_synonyms,omitempty"`
	// ClearedExpressions lists expressions removed at tiers that forbid them.
	ClearedExpressions []ClearedExpressions `json:"cleared_expressions,omitempty"`
	TurnViolations     []TurnViolation      `json:"turn_violations,omitempty"`
	// SkippedExercises lists exercises whose content could not be decoded.
	SkippedExercises []int `json:"skipped_exercises,omitempty"`
}

// HasTurnViolations reports whether any dialogue broke the turn-taking rule.
func (r Report) HasTurnViolations() bool {
	return len(r.TurnViolations) > 0
}

// Validator applies the post-generation passes to decoded lessons.
type Validator struct {
	logger *slog.Logger
	mode   EnforcementMode
}

// NewValidator creates a Validator.
func NewValidator(logger *slog.Logger, mode EnforcementMode) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	if mode == "" {
		mode = EnforceLog
	}
	return &Validator{
		logger: logger.With("component", "lesson_validator"),
		mode:   mode,
	}
}

// Mode returns the configured enforcement mode.
func (v *Validator) Mode() EnforcementMode {
	return v.mode
}

// Validate sanitizes vocabulary in place and audits dialogue turn-taking.
// It never fails; problems are logged and returned in the Report.
func (v *Validator) Validate(ctx context.Context, lesson *domain.GeneratedLesson, profile domain.LearnerProfile) Report {
	var report Report
	if lesson == nil {
		return report
	}
	if tier, err := domain.ParseTier(string(profile.Tier)); err == nil {
		profile.Tier = tier
	}

	for i := range lesson.Exercises {
		ex := &lesson.Exercises[i]
		switch {
		case ex.Is(domain.ExerciseVocabulary):
			v.sanitizeExercise(ctx, i, ex, profile.Tier, &report)
		case ex.Is(domain.ExerciseDialogue):
			v.auditExercise(ctx, i, ex, profile, &report)
		}
	}

	if len(report.BlankedSynonyms) > 0 || len(report.ClearedExpressions) > 0 || report.HasTurnViolations() {
		v.logger.InfoContext(ctx, "lesson validation completed with findings",
			"tier", profile.Tier,
			"blanked_synonyms", len(report.BlankedSynonyms),
			"cleared_expressions", len(report.ClearedExpressions),
			"turn_violations", len(report.TurnViolations),
			"enforcement", v.mode)
	}
	return report
}

func (v *Validator) sanitizeExercise(ctx context.Context, index int, ex *domain.Exercise, tier domain.Tier, report *Report) {
	content, err := ex.VocabularyContent()
	if err != nil {
		v.logger.WarnContext(ctx, "skipping synonym check, vocabulary content unreadable",
			"exercise_index", index,
			"error", err)
		report.SkippedExercises = append(report.SkippedExercises, index)
		return
	}

	blanked := sanitizeSynonyms(tier, index, &content)
	cleared := sanitizeExpressions(tier, index, &content)
	if len(blanked) == 0 && len(cleared) == 0 {
		return
	}
	for _, b := range blanked {
		v.logger.DebugContext(ctx, "blanked synonym above tier ceiling",
			"exercise_index", index,
			"word", b.Word,
			"synonym", b.Synonym,
			"tier", tier)
	}
	for _, c := range cleared {
		v.logger.DebugContext(ctx, "cleared expressions not allowed at tier",
			"exercise_index", index,
			"word", c.Word,
			"expressions", len(c.Expressions),
			"tier", tier)
	}
	if err := ex.SetContent(content); err != nil {
		v.logger.WarnContext(ctx, "failed to store sanitized vocabulary",
			"exercise_index", index,
			"error", err)
		report.SkippedExercises = append(report.SkippedExercises, index)
		return
	}
	report.BlankedSynonyms = append(report.BlankedSynonyms, blanked...)
	report.ClearedExpressions = append(report.ClearedExpressions, cleared...)
}

func (v *Validator) auditExercise(ctx context.Context, index int, ex *domain.Exercise, profile domain.LearnerProfile, report *Report) {
	content, err := ex.DialogueContent()
	if err != nil {
		v.logger.WarnContext(ctx, "skipping turn-taking audit, dialogue content unreadable",
			"exercise_index", index,
			"error", err)
		report.SkippedExercises = append(report.SkippedExercises, index)
		return
	}

	learner := LearnerCharacter(content, profile)
	if learner == "" {
		v.logger.WarnContext(ctx, "skipping turn-taking audit, learner character unknown",
			"exercise_index", index)
		return
	}

	for _, violation := range AuditDialogue(index, content.Lines, learner) {
		v.logger.WarnContext(ctx, "dialogue turn-taking violation",
			"exercise_index", violation.ExerciseIndex,
			"line", violation.Line,
			"previous_speaker", violation.Previous,
			"current_speaker", violation.Current,
			"learner", learner,
			"reason", violation.Reason)
		report.TurnViolations = append(report.TurnViolations, violation)
	}
}
