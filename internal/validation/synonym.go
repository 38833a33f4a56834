package validation

import (
	"regexp"
	"strings"

	"github.com/phrazzld/scry-tutor/internal/domain"
)

// synonymLimits bounds synonym complexity for one tier. Zero means unbounded.
type synonymLimits struct {
	maxSyllables  int
	maxLength     int
	checkSuffixes bool
}

var tierSynonymLimits = map[domain.Tier]synonymLimits{
	domain.TierA1: {maxSyllables: 2, maxLength: 8, checkSuffixes: true},
	domain.TierA2: {maxSyllables: 3, maxLength: 10, checkSuffixes: true},
	domain.TierB1: {maxSyllables: 4},
	domain.TierB2: {maxSyllables: 6},
	domain.TierC1: {},
	domain.TierC2: {},
}

// phraseTier is the lowest tier whose synonyms may be multi-word phrases.
const phraseTier = domain.TierB1

// advancedSuffix matches Latinate and academic word endings that mark a word
// as too advanced for the two lowest tiers.
var advancedSuffix = regexp.MustCompile(`(ation|ition|ology|esque|ious|eous|ence|ance|ulate|escent|ific|ism|ize)$`)

// minStem keeps short everyday words such as "fence" or "nice" from matching
// a suffix that makes up nearly the whole word.
const minStem = 3

var vowelGroups = regexp.MustCompile(`[aeiouy]+`)

// CountSyllables estimates the syllables of a single word by counting vowel
// groups, discounting a trailing silent "e".
func CountSyllables(word string) int {
	w := strings.ToLower(strings.TrimSpace(word))
	w = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, w)
	if w == "" {
		return 0
	}

	count := len(vowelGroups.FindAllStringIndex(w, -1))
	if count > 1 && strings.HasSuffix(w, "e") && !strings.HasSuffix(w, "le") {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

func hasAdvancedMorphology(word string) bool {
	loc := advancedSuffix.FindStringIndex(word)
	return loc != nil && loc[0] >= minStem
}

// SynonymAcceptable reports whether synonym is simple enough for tier. Tier
// codes are matched case-insensitively. Empty synonyms and unknown tiers are
// always acceptable.
func SynonymAcceptable(tier domain.Tier, synonym string) bool {
	words := strings.Fields(strings.ToLower(synonym))
	if len(words) == 0 {
		return true
	}
	tier, err := domain.ParseTier(string(tier))
	if err != nil {
		return true
	}
	limits := tierSynonymLimits[tier]

	if len(words) > 1 && tier.Below(phraseTier) {
		return false
	}
	for _, w := range words {
		if limits.maxSyllables > 0 && CountSyllables(w) > limits.maxSyllables {
			return false
		}
		if limits.maxLength > 0 && len([]rune(w)) > limits.maxLength {
			return false
		}
		if limits.checkSuffixes && hasAdvancedMorphology(w) {
			return false
		}
	}
	return true
}

// BlankedSynonym records a synonym removed by sanitization.
type BlankedSynonym struct {
	ExerciseIndex int    `json:"exercise_index"`
	Word          string `json:"word"`
	Synonym       string `json:"synonym"`
}

// ClearedExpressions records the expressions removed from one vocabulary item
// at a tier that does not allow them.
type ClearedExpressions struct {
	ExerciseIndex int      `json:"exercise_index"`
	Word          string   `json:"word"`
	Expressions   []string `json:"expressions"`
}

// ExpressionsAllowed reports whether vocabulary items at tier may carry
// expressions. Only A1 forbids them.
func ExpressionsAllowed(tier domain.Tier) bool {
	parsed, err := domain.ParseTier(string(tier))
	return err != nil || parsed != domain.TierA1
}

// sanitizeSynonyms blanks every synonym in content that tier does not allow
// and returns what it removed.
func sanitizeSynonyms(tier domain.Tier, exerciseIndex int, content *domain.VocabularyContent) []BlankedSynonym {
	var blanked []BlankedSynonym
	for i := range content.Items {
		item := &content.Items[i]
		if strings.TrimSpace(item.Synonym) == "" {
			continue
		}
		if SynonymAcceptable(tier, item.Synonym) {
			continue
		}
		blanked = append(blanked, BlankedSynonym{
			ExerciseIndex: exerciseIndex,
			Word:          item.Word,
			Synonym:       item.Synonym,
		})
		item.Synonym = ""
	}
	return blanked
}

// sanitizeExpressions empties the expression lists of content when tier does
// not allow expressions and returns what it removed.
func sanitizeExpressions(tier domain.Tier, exerciseIndex int, content *domain.VocabularyContent) []ClearedExpressions {
	if ExpressionsAllowed(tier) {
		return nil
	}
	var cleared []ClearedExpressions
	for i := range content.Items {
		item := &content.Items[i]
		if len(item.Expressions) == 0 {
			continue
		}
		cleared = append(cleared, ClearedExpressions{
			ExerciseIndex: exerciseIndex,
			Word:          item.Word,
			Expressions:   item.Expressions,
		})
		item.Expressions = []string{}
	}
	return cleared
}
