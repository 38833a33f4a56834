package level

import (
	"fmt"
	"strings"

	"github.com/phrazzld/scry-tutor/internal/domain"
)

// exerciseMinutes splits a session across the four template exercises:
// vocabulary, grammar, dialogue, discussion.
func exerciseMinutes(length domain.SessionLength) [4]int {
	if length == domain.SessionLong {
		return [4]int{15, 15, 15, 15}
	}
	return [4]int{8, 8, 8, 6}
}

// assembleLesson builds the deterministic template lesson for p.
func assembleLesson(p basePolicy, profile domain.LearnerProfile, topic domain.LearningTopic, length domain.SessionLength) domain.GeneratedLesson {
	if !length.Valid() {
		length = domain.SessionShort
	}
	minutes := exerciseMinutes(length)
	words := p.VocabularyForLevel(topic.Vocabulary)

	learner := strings.TrimSpace(profile.Name)
	if learner == "" {
		learner = "Learner"
	}

	exercises := []domain.Exercise{
		vocabularyExercise(p, topic, words, minutes[0]),
		grammarExercise(p, topic, minutes[1]),
		dialogueExercise(p, topic, learner, words, minutes[2]),
		discussionExercise(p, topic, minutes[3]),
	}

	lessonType := "general"
	if topic.Methodology != "" {
		lessonType = string(topic.Methodology)
	}
	skills := topic.Skills
	if len(skills) == 0 {
		skills = p.style.skills
	}

	return domain.GeneratedLesson{
		Title:      topic.Title,
		LessonType: lessonType,
		Difficulty: p.tier.Rank(),
		Duration:   length.Minutes(),
		Objective:  topic.Objective,
		Skills:     append([]string(nil), skills...),
		Vocabulary: words,
		Context:    topic.Context,
		Exercises:  exercises,
		Homework:   p.style.homework,
		Materials:  []string{"Vocabulary cards", "Dialogue script"},
		Notes:      fmt.Sprintf("Template lesson for tier %s.", p.tier),
	}
}

// newExercise wraps domain.NewExercise for payloads made only of strings and
// slices, which always marshal.
func newExercise(kind domain.ExerciseType, title, description string, minutes int, payload any) domain.Exercise {
	ex, err := domain.NewExercise(kind, title, description, minutes, payload)
	if err != nil {
		return domain.Exercise{Type: kind, Title: title, Description: description, TimeMinutes: minutes}
	}
	return ex
}

func vocabularyExercise(p basePolicy, topic domain.LearningTopic, words []string, minutes int) domain.Exercise {
	seeds := make(map[string]domain.VocabularyItem, len(p.seeds))
	for _, s := range p.seeds {
		seeds[normalizeWord(s.Word)] = s
	}

	var items []domain.VocabularyItem
	if len(words) == 0 {
		items = p.GenerateVocabularyItems()
	} else {
		items = make([]domain.VocabularyItem, 0, len(words))
		for _, w := range words {
			if seed, ok := seeds[normalizeWord(w)]; ok {
				items = append(items, seed)
				continue
			}
			items = append(items, domain.VocabularyItem{
				Word:    w,
				Example: fmt.Sprintf("Use %q in a sentence about %s.", w, strings.ToLower(topic.Title)),
			})
		}
	}

	return newExercise(domain.ExerciseVocabulary, "Vocabulary practice",
		"Learn and use the key words of the lesson.", minutes,
		domain.VocabularyContent{
			Instructions: "Read each word aloud, then use it in your own sentence.",
			Items:        items,
		})
}

func grammarExercise(p basePolicy, topic domain.LearningTopic, minutes int) domain.Exercise {
	focus := topic.GrammarFocus
	if focus == "" {
		focus = p.style.grammarFocus
	}
	return newExercise(domain.ExerciseGrammar, "Grammar focus: "+focus,
		"Notice the structure, then practise it.", minutes,
		domain.GrammarContent{
			Focus:       focus,
			Explanation: p.style.grammarExplanation,
			Examples:    append([]string(nil), p.style.grammarExamples...),
			Practice: []string{
				fmt.Sprintf("Write two sentences about %s using %s.", strings.ToLower(topic.Title), strings.ToLower(focus)),
			},
		})
}

// dialogueExercise alternates learner and partner lines so the learner opens
// and answers every partner turn.
func dialogueExercise(p basePolicy, topic domain.LearningTopic, learner string, words []string, minutes int) domain.Exercise {
	partner := p.style.partner
	keyword := strings.ToLower(topic.Title)
	if len(words) > 0 {
		keyword = words[0]
	}

	lines := []domain.DialogueLine{
		{Character: learner, Text: fmt.Sprintf("Hello! Can we talk about %s?", strings.ToLower(topic.Title))},
		{Character: partner, Text: fmt.Sprintf("Of course. What do you know about %q?", keyword)},
		{Character: learner, Text: fmt.Sprintf("I know the word %q. I want to use it more.", keyword)},
		{Character: partner, Text: "Great. Tell me a short story with it."},
		{Character: learner, Text: "Okay, let me try."},
	}

	return newExercise(domain.ExerciseDialogue, "Dialogue",
		"Read the dialogue with your tutor, then swap details and repeat.", minutes,
		domain.DialogueContent{
			Setting:          p.style.dialogueSetting,
			LearnerCharacter: learner,
			Characters:       []string{learner, partner},
			Lines:            lines,
		})
}

func discussionExercise(p basePolicy, topic domain.LearningTopic, minutes int) domain.Exercise {
	questions := make([]string, len(p.style.discussion))
	for i, q := range p.style.discussion {
		questions[i] = strings.ReplaceAll(q, "{topic}", strings.ToLower(topic.Title))
	}
	return newExercise(domain.ExerciseDiscussion, "Discussion",
		"Answer the questions in full sentences.", minutes,
		domain.DiscussionContent{
			Prompt:    fmt.Sprintf("Let's talk about %s.", strings.ToLower(topic.Title)),
			Questions: questions,
		})
}
