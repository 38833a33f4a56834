package level

import "github.com/phrazzld/scry-tutor/internal/domain"

// B2Policy governs upper-intermediate learners.
type B2Policy struct {
	basePolicy
}

var _ Policy = (*B2Policy)(nil)

const b2Guide = `Use vocabulary for argument, abstract topics and professional situations.
All conditionals, passive forms, reported speech and modal verbs of deduction are allowed.
Include idiomatic collocations and two or three expressions per vocabulary item.
Synonyms may be precise and less frequent, up to six syllables.`

var b2Words = []string{
	"consequence", "significant", "assume", "approach", "outcome", "evidence",
	"controversial", "perspective", "sustainable", "negotiate", "compromise",
	"priority", "efficient", "reliable", "persuade", "convince", "tendency",
	"reluctant", "inevitable", "emphasise", "acknowledge", "contribute",
	"estimate", "resolve", "implement", "on the other hand", "bear in mind",
	"come up with", "run out of", "in the long run", "a matter of time",
}

// NewB2Policy creates the B2 policy.
func NewB2Policy() *B2Policy {
	return &B2Policy{basePolicy: newBasePolicy(domain.TierB2, b2Guide, b2Words,
		[]domain.VocabularyItem{
			{Word: "compromise", PartOfSpeech: "noun", Phonetic: "/ˈkɒmprəmaɪz/", Definition: "an agreement where each side gives up something", Example: "After hours of talks they reached a compromise.", Synonym: "middle ground", Expressions: []string{"reach a compromise", "make compromises"}},
			{Word: "reluctant", PartOfSpeech: "adjective", Phonetic: "/rɪˈlʌktənt/", Definition: "not willing to do something", Example: "He was reluctant to change his plans.", Synonym: "unwilling", Expressions: []string{"reluctant to admit"}},
			{Word: "bear in mind", PartOfSpeech: "idiom", Phonetic: "/beə ɪn maɪnd/", Definition: "to remember a fact when making a decision", Example: "Bear in mind that the shop closes early.", Expressions: []string{"it's worth bearing in mind"}},
		},
		lessonStyle{
			grammarFocus:       "Third conditional and mixed conditionals",
			grammarExplanation: "Use the third conditional for imagined past results and mixed conditionals to connect an imagined past with the present.",
			grammarExamples:    []string{"If I had left earlier, I would have caught the train.", "If she had studied medicine, she would be a doctor now."},
			dialogueSetting:    "Negotiating a change of plan with a partner.",
			partner:            "Partner",
			discussion: []string{
				"What are the main arguments for and against {topic}?",
				"How might {topic} look in twenty years?",
				"What would have happened if {topic} had never existed?",
			},
			homework: "Write a 200-word opinion essay on today's topic with one argument for and one against.",
			skills:   []string{"speaking", "listening", "writing", "reading"},
		})}
}
