package level

import (
	"strings"

	"github.com/phrazzld/scry-tutor/internal/domain"
)

// Policy is the tier-specific behaviour of the lesson pipeline.
// Implementations are stateless and safe for concurrent use.
type Policy interface {
	// Tier returns the tier this policy governs.
	Tier() domain.Tier

	// GenerateLesson assembles a deterministic template lesson with a
	// vocabulary, grammar, dialogue and discussion exercise. Difficulty equals
	// the tier rank.
	GenerateLesson(profile domain.LearnerProfile, topic domain.LearningTopic, length domain.SessionLength) domain.GeneratedLesson

	// GenerateVocabularyItems returns the curated seed vocabulary for the tier.
	GenerateVocabularyItems() []domain.VocabularyItem

	// VocabularyGuide returns prompt text describing register, idiom density
	// and forbidden basic terms for the tier.
	VocabularyGuide() string

	// AcceptableVocabulary returns the set of on-tier words and phrases.
	AcceptableVocabulary() map[string]struct{}

	// IsWordAcceptableForLevel reports whether word belongs to the tier's
	// vocabulary, tolerating morphological variants.
	IsWordAcceptableForLevel(word string) bool

	// VocabularyForLevel filters topic vocabulary for the tier. Every tier
	// currently returns the words unchanged.
	VocabularyForLevel(words []string) []string
}

// minSubstringMatch is the shortest word for which substring matching applies.
// Shorter words must match exactly, otherwise "a" would accept everything.
const minSubstringMatch = 3

// basePolicy carries the data every tier policy is built from. Tier types
// embed it and supply their own data through their constructors.
type basePolicy struct {
	tier       domain.Tier
	guide      string
	acceptable map[string]struct{}
	// denylist is only set for the upper tiers.
	denylist map[string]struct{}
	seeds    []domain.VocabularyItem
	style    lessonStyle
}

// lessonStyle is the tier-specific wording of the template lesson.
type lessonStyle struct {
	grammarFocus       string
	grammarExplanation string
	grammarExamples    []string
	dialogueSetting    string
	partner            string
	discussion         []string
	homework           string
	skills             []string
}

func newBasePolicy(tier domain.Tier, guide string, acceptable []string, seeds []domain.VocabularyItem, style lessonStyle) basePolicy {
	return basePolicy{
		tier:       tier,
		guide:      guide,
		acceptable: wordSet(acceptable),
		seeds:      seeds,
		style:      style,
	}
}

func (p basePolicy) Tier() domain.Tier {
	return p.tier
}

func (p basePolicy) VocabularyGuide() string {
	return p.guide
}

func (p basePolicy) GenerateVocabularyItems() []domain.VocabularyItem {
	items := make([]domain.VocabularyItem, len(p.seeds))
	for i, s := range p.seeds {
		items[i] = s
		items[i].Expressions = append([]string(nil), s.Expressions...)
	}
	return items
}

func (p basePolicy) AcceptableVocabulary() map[string]struct{} {
	out := make(map[string]struct{}, len(p.acceptable))
	for w := range p.acceptable {
		out[w] = struct{}{}
	}
	return out
}

func (p basePolicy) IsWordAcceptableForLevel(word string) bool {
	w := normalizeWord(word)
	if w == "" {
		return false
	}
	if p.denylist != nil {
		for _, token := range strings.Fields(w) {
			if _, banned := p.denylist[token]; banned {
				return false
			}
		}
	}
	if _, ok := p.acceptable[w]; ok {
		return true
	}
	if len(w) < minSubstringMatch {
		return false
	}
	for a := range p.acceptable {
		if len(a) >= minSubstringMatch && (strings.Contains(w, a) || strings.Contains(a, w)) {
			return true
		}
	}
	return false
}

func (p basePolicy) VocabularyForLevel(words []string) []string {
	out := make([]string, len(words))
	copy(out, words)
	return out
}

func (p basePolicy) GenerateLesson(profile domain.LearnerProfile, topic domain.LearningTopic, length domain.SessionLength) domain.GeneratedLesson {
	return assembleLesson(p, profile, topic, length)
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if n := normalizeWord(w); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.Join(strings.Fields(w), " "))
}

// basicProfessionalTerms are too elementary to teach at C1 and above.
var basicProfessionalTerms = []string{
	"meeting", "email", "report", "manager", "office", "work", "job", "boss",
	"colleague", "deadline", "project", "team", "client", "presentation",
}
