package level

import "github.com/phrazzld/scry-tutor/internal/domain"

// B1Policy governs intermediate learners.
type B1Policy struct {
	basePolicy
}

var _ Policy = (*B1Policy)(nil)

const b1Guide = `Use vocabulary for opinions, experiences, plans and familiar work topics.
Present perfect, first and second conditionals and simple relative clauses are allowed.
Each vocabulary item may carry one or two common collocations or phrasal verbs.
Synonyms may be short phrases of common words, at most four syllables per word.`

var b1Words = []string{
	"experience", "opinion", "advice", "suggest", "decide", "improve", "manage",
	"achieve", "career", "interview", "apply", "salary", "colleague", "deadline",
	"environment", "pollution", "recycle", "health", "exercise", "diet",
	"relationship", "argue", "agree", "disagree", "complain", "recommend",
	"prefer", "compare", "challenge", "opportunity", "confident", "nervous",
	"disappointed", "excited", "look forward to", "get on with", "find out",
	"give up", "take part in", "as soon as",
}

// NewB1Policy creates the B1 policy.
func NewB1Policy() *B1Policy {
	return &B1Policy{basePolicy: newBasePolicy(domain.TierB1, b1Guide, b1Words,
		[]domain.VocabularyItem{
			{Word: "improve", PartOfSpeech: "verb", Phonetic: "/ɪmˈpruːv/", Definition: "to become or make something better", Example: "I want to improve my English.", Synonym: "get better", Expressions: []string{"improve your skills", "greatly improve"}},
			{Word: "opportunity", PartOfSpeech: "noun", Phonetic: "/ˌɒpəˈtjuːnəti/", Definition: "a chance to do something", Example: "This job is a great opportunity.", Synonym: "chance", Expressions: []string{"take the opportunity"}},
			{Word: "look forward to", PartOfSpeech: "phrasal verb", Phonetic: "/lʊk ˈfɔːwəd tuː/", Definition: "to feel happy about something that will happen", Example: "I'm looking forward to the trip.", Expressions: []string{"I look forward to hearing from you"}},
		},
		lessonStyle{
			grammarFocus:       "Present perfect vs past simple",
			grammarExplanation: "Use the present perfect for experiences and results connected to now; use the past simple when the time is finished and stated.",
			grammarExamples:    []string{"I have lived here for three years.", "I moved here in 2021.", "Have you ever tried sushi?"},
			dialogueSetting:    "Asking a friend for advice about a decision.",
			partner:            "Friend",
			discussion: []string{
				"What experience have you had with {topic}?",
				"What advice would you give someone about {topic}?",
				"How has {topic} changed in the last ten years?",
			},
			homework: "Write a 120-word email giving advice about today's topic.",
			skills:   []string{"speaking", "listening", "writing"},
		})}
}
