package level

import "github.com/phrazzld/scry-tutor/internal/domain"

// A1Policy governs absolute beginners.
type A1Policy struct {
	basePolicy
}

var _ Policy = (*A1Policy)(nil)

const a1Guide = `Use only the most frequent everyday words: family, food, numbers, colours, days, simple actions.
Sentences have one clause and use the present simple. No idioms, no phrasal verbs, no expressions.
Synonyms, when given, must be shorter and more common than the word itself (one or two syllables).
Definitions use words from the same basic list.`

var a1Words = []string{
	"hello", "goodbye", "please", "thank you", "yes", "no", "name", "family",
	"mother", "father", "brother", "sister", "friend", "house", "home", "food",
	"water", "bread", "apple", "coffee", "tea", "eat", "drink", "go", "come",
	"like", "want", "have", "big", "small", "good", "bad", "happy", "day",
	"today", "morning", "night", "one", "two", "three", "red", "blue", "cat",
	"dog", "car", "bus", "shop", "school", "book", "time",
}

// NewA1Policy creates the A1 policy.
func NewA1Policy() *A1Policy {
	return &A1Policy{basePolicy: newBasePolicy(domain.TierA1, a1Guide, a1Words,
		[]domain.VocabularyItem{
			{Word: "hello", PartOfSpeech: "interjection", Phonetic: "/həˈləʊ/", Definition: "a word you say when you meet someone", Example: "Hello, my name is Ana.", Synonym: "hi"},
			{Word: "family", PartOfSpeech: "noun", Phonetic: "/ˈfæməli/", Definition: "your mother, father, brothers and sisters", Example: "My family is small."},
			{Word: "eat", PartOfSpeech: "verb", Phonetic: "/iːt/", Definition: "to put food in your mouth", Example: "I eat bread in the morning."},
			{Word: "happy", PartOfSpeech: "adjective", Phonetic: "/ˈhæpi/", Definition: "feeling good", Example: "I am happy today.", Synonym: "glad"},
		},
		lessonStyle{
			grammarFocus:       "Present simple of to be",
			grammarExplanation: "Use am, is and are to say who you are and how you feel: I am, you are, he is.",
			grammarExamples:    []string{"I am Ana.", "She is my sister.", "We are happy."},
			dialogueSetting:    "Two people meet for the first time in a café.",
			partner:            "Tutor",
			discussion: []string{
				"What words about {topic} do you know?",
				"Do you like {topic}? Why?",
			},
			homework: "Write five short sentences about yourself using today's words.",
			skills:   []string{"speaking", "listening"},
		})}
}
