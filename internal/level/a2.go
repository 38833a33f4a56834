package level

import "github.com/phrazzld/scry-tutor/internal/domain"

// A2Policy governs elementary learners.
type A2Policy struct {
	basePolicy
}

var _ Policy = (*A2Policy)(nil)

const a2Guide = `Use common words for routines, shopping, travel, work and free time.
Sentences may join two clauses with and, but or because. Past simple and going to are allowed.
At most one very common expression per vocabulary item (for example "have a good time").
Synonyms must be single, familiar words of up to three syllables.`

var a2Words = []string{
	"weekend", "holiday", "ticket", "station", "airport", "hotel", "restaurant",
	"menu", "order", "pay", "money", "cheap", "expensive", "weather", "rain",
	"sunny", "cold", "hot", "clothes", "shirt", "shoes", "buy", "sell", "visit",
	"travel", "journey", "job", "work", "office", "hobby", "music", "sport",
	"football", "cook", "kitchen", "breakfast", "lunch", "dinner", "yesterday",
	"tomorrow", "usually", "sometimes", "never", "because", "doctor", "ill",
}

// NewA2Policy creates the A2 policy.
func NewA2Policy() *A2Policy {
	return &A2Policy{basePolicy: newBasePolicy(domain.TierA2, a2Guide, a2Words,
		[]domain.VocabularyItem{
			{Word: "ticket", PartOfSpeech: "noun", Phonetic: "/ˈtɪkɪt/", Definition: "a piece of paper that lets you travel or enter a place", Example: "I bought a train ticket.", Expressions: []string{"a return ticket"}},
			{Word: "expensive", PartOfSpeech: "adjective", Phonetic: "/ɪkˈspensɪv/", Definition: "costing a lot of money", Example: "This hotel is very expensive.", Synonym: "costly"},
			{Word: "journey", PartOfSpeech: "noun", Phonetic: "/ˈdʒɜːni/", Definition: "travelling from one place to another", Example: "The journey took two hours.", Synonym: "trip", Expressions: []string{"have a good journey"}},
		},
		lessonStyle{
			grammarFocus:       "Past simple",
			grammarExplanation: "Use the past simple for finished actions. Regular verbs add -ed; common irregular verbs must be learned.",
			grammarExamples:    []string{"I visited my aunt last weekend.", "We went to the beach.", "She didn't buy the shoes."},
			dialogueSetting:    "Buying a train ticket at a station.",
			partner:            "Clerk",
			discussion: []string{
				"When did you last think about {topic}?",
				"What do you usually do that is connected to {topic}?",
				"Is {topic} different in your country?",
			},
			homework: "Write a short message to a friend about your last weekend using the past simple.",
			skills:   []string{"speaking", "listening", "reading"},
		})}
}
