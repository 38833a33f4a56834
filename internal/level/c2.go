package level

import "github.com/phrazzld/scry-tutor/internal/domain"

// C2Policy governs proficient learners. Basic professional vocabulary is
// rejected outright.
type C2Policy struct {
	basePolicy
}

var _ Policy = (*C2Policy)(nil)

const c2Guide = `Use near-native vocabulary: low-frequency words, literary and academic register, idioms, wordplay and cultural references.
Never teach basic professional words such as meeting, email, report, manager, office, work, job, boss,
colleague, deadline, project, team, client or presentation.
Expect subtle distinctions of connotation and style. Each item should carry several idiomatic expressions.`

var c2Words = []string{
	"obfuscate", "ineffable", "quintessential", "perfunctory", "recalcitrant",
	"sanguine", "obsequious", "pernicious", "equivocate", "esoteric",
	"magnanimous", "vicissitude", "ameliorate", "sycophant", "laconic",
	"ephemeral", "zeitgeist", "serendipity", "circumlocution", "verisimilitude",
	"beg the question", "damn with faint praise", "a Pyrrhic victory",
	"the elephant in the room", "throw caution to the wind", "moot point",
}

// NewC2Policy creates the C2 policy.
func NewC2Policy() *C2Policy {
	p := &C2Policy{basePolicy: newBasePolicy(domain.TierC2, c2Guide, c2Words,
		[]domain.VocabularyItem{
			{Word: "equivocate", PartOfSpeech: "verb", Phonetic: "/ɪˈkwɪvəkeɪt/", Definition: "to use unclear language to avoid committing oneself", Example: "The minister equivocated when pressed on the figures.", Synonym: "prevaricate", Expressions: []string{"equivocate on an issue"}},
			{Word: "perfunctory", PartOfSpeech: "adjective", Phonetic: "/pəˈfʌŋktəri/", Definition: "done with minimum effort or care", Example: "She gave the report a perfunctory glance.", Synonym: "cursory", Expressions: []string{"a perfunctory nod", "perfunctory checks"}},
			{Word: "a Pyrrhic victory", PartOfSpeech: "idiom", Phonetic: "/ə ˈpɪrɪk ˈvɪktəri/", Definition: "a win that costs so much it is hardly worth it", Example: "The lawsuit was a Pyrrhic victory.", Expressions: []string{"prove a Pyrrhic victory"}},
		},
		lessonStyle{
			grammarFocus:       "Nominalisation and academic register",
			grammarExplanation: "Turn verbs and adjectives into nouns to pack information densely and shift the register towards academic or formal prose.",
			grammarExamples:    []string{"The committee's rejection of the proposal surprised observers.", "The rapid expansion of the sector raised concerns about its sustainability."},
			dialogueSetting:    "A nuanced exchange at a literary salon.",
			partner:            "Critic",
			discussion: []string{
				"What is the elephant in the room when people discuss {topic}?",
				"How would you explain the subtleties of {topic} to a sceptic?",
				"Which cultural references best capture {topic}?",
			},
			homework: "Write a 400-word review-style essay on today's topic, rephrasing three of your sentences in a different register.",
			skills:   []string{"speaking", "listening", "writing", "reading"},
		})}
	p.denylist = wordSet(basicProfessionalTerms)
	return p
}
