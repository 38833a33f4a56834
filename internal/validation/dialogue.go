package validation

import (
	"strings"

	"github.com/phrazzld/scry-tutor/internal/domain"
)

// Turn-taking violation reasons.
const (
	ReasonLearnerNotFirst   = "learner does not speak first"
	ReasonConsecutiveOthers = "two non-learner lines in a row"
)

// TurnViolation is one breach of the rule that the learner opens a dialogue
// and answers every other speaker.
type TurnViolation struct {
	ExerciseIndex int    `json:"exercise_index"`
	Line          int    `json:"line"`
	Previous      string `json:"previous,omitempty"`
	Current       string `json:"current"`
	Reason        string `json:"reason"`
}

// LearnerCharacter returns the character the learner plays: the dialogue's
// declared learner character, or the learner's name.
func LearnerCharacter(content domain.DialogueContent, profile domain.LearnerProfile) string {
	if c := strings.TrimSpace(content.LearnerCharacter); c != "" {
		return c
	}
	return strings.TrimSpace(profile.Name)
}

func sameSpeaker(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// AuditDialogue checks the turn-taking rule for one dialogue. It never
// modifies the dialogue.
func AuditDialogue(exerciseIndex int, lines []domain.DialogueLine, learner string) []TurnViolation {
	if len(lines) == 0 || strings.TrimSpace(learner) == "" {
		return nil
	}

	var violations []TurnViolation
	if !sameSpeaker(lines[0].Character, learner) {
		violations = append(violations, TurnViolation{
			ExerciseIndex: exerciseIndex,
			Line:          0,
			Current:       lines[0].Character,
			Reason:        ReasonLearnerNotFirst,
		})
	}
	for i := 1; i < len(lines); i++ {
		prev, cur := lines[i-1].Character, lines[i].Character
		if !sameSpeaker(prev, learner) && !sameSpeaker(cur, learner) {
			violations = append(violations, TurnViolation{
				ExerciseIndex: exerciseIndex,
				Line:          i,
				Previous:      prev,
				Current:       cur,
				Reason:        ReasonConsecutiveOthers,
			})
		}
	}
	return violations
}
