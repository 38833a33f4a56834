package level

import "github.com/phrazzld/scry-tutor/internal/domain"

// C1Policy governs advanced learners. Basic professional vocabulary is
// rejected outright.
type C1Policy struct {
	basePolicy
}

var _ Policy = (*C1Policy)(nil)

const c1Guide = `Use sophisticated, precise vocabulary: nuanced verbs, idioms, register shifts and discourse markers.
Do not teach basic professional words such as meeting, email, report, manager, office, work, job, boss,
colleague, deadline, project, team, client or presentation; the learner already knows them.
Inversion, cleft sentences and advanced hedging are expected. Each item may carry several expressions.`

var c1Words = []string{
	"albeit", "notwithstanding", "discrepancy", "scrutinise", "alleviate",
	"exacerbate", "mitigate", "unprecedented", "intrinsic", "ambiguous",
	"pragmatic", "meticulous", "plausible", "undermine", "substantiate",
	"advocate", "contentious", "ubiquitous", "detrimental", "feasible",
	"juxtapose", "leverage", "paradigm", "stakeholder", "delegate",
	"by and large", "to all intents and purposes", "a double-edged sword",
	"bring to light", "play devil's advocate", "cut corners",
}

// NewC1Policy creates the C1 policy.
func NewC1Policy() *C1Policy {
	p := &C1Policy{basePolicy: newBasePolicy(domain.TierC1, c1Guide, c1Words,
		[]domain.VocabularyItem{
			{Word: "mitigate", PartOfSpeech: "verb", Phonetic: "/ˈmɪtɪɡeɪt/", Definition: "to make something bad less severe", Example: "The new policy should mitigate the risks.", Synonym: "lessen", Expressions: []string{"mitigate the impact", "mitigating circumstances"}},
			{Word: "contentious", PartOfSpeech: "adjective", Phonetic: "/kənˈtenʃəs/", Definition: "likely to cause disagreement", Example: "Funding remains a contentious issue.", Synonym: "controversial", Expressions: []string{"a contentious issue", "hotly contentious"}},
			{Word: "a double-edged sword", PartOfSpeech: "idiom", Phonetic: "/ə ˈdʌbl edʒd sɔːd/", Definition: "something with both advantages and disadvantages", Example: "Remote work is a double-edged sword.", Expressions: []string{"prove to be a double-edged sword"}},
		},
		lessonStyle{
			grammarFocus:       "Inversion for emphasis",
			grammarExplanation: "After negative or restrictive adverbials at the start of a sentence, invert subject and auxiliary to add emphasis or formality.",
			grammarExamples:    []string{"Never before have we faced such a challenge.", "Not only did they miss the target, but they also ignored the warnings.", "Rarely does a proposal gain such support."},
			dialogueSetting:    "A frank debate with a sceptical peer.",
			partner:            "Peer",
			discussion: []string{
				"To what extent is {topic} overrated?",
				"Which assumptions about {topic} deserve more scrutiny?",
				"Play devil's advocate: argue the opposite of your own view on {topic}.",
			},
			homework: "Write a 300-word argumentative piece on today's topic using at least three inversion structures.",
			skills:   []string{"speaking", "listening", "writing", "reading"},
		})}
	p.denylist = wordSet(basicProfessionalTerms)
	return p
}
