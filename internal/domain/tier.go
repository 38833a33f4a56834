package domain

import (
	"fmt"
	"strings"
)

// Tier is a CEFR proficiency level governing vocabulary and grammar complexity.
type Tier string

// Supported CEFR tiers, lowest to highest.
const (
	TierA1 Tier = "A1"
	TierA2 Tier = "A2"
	TierB1 Tier = "B1"
	TierB2 Tier = "B2"
	TierC1 Tier = "C1"
	TierC2 Tier = "C2"
)

// AllTiers lists every supported tier in ascending order.
var AllTiers = []Tier{TierA1, TierA2, TierB1, TierB2, TierC1, TierC2}

var tierRanks = map[Tier]int{
	TierA1: 1,
	TierA2: 2,
	TierB1: 3,
	TierB2: 4,
	TierC1: 5,
	TierC2: 6,
}

// Rank returns the fixed ordinal of the tier (A1=1 … C2=6), or 0 when the tier
// is not recognized.
func (t Tier) Rank() int {
	return tierRanks[t]
}

// Valid reports whether t is one of the six supported tiers.
func (t Tier) Valid() bool {
	_, ok := tierRanks[t]
	return ok
}

// Below reports whether t ranks strictly lower than other.
func (t Tier) Below(other Tier) bool {
	return t.Rank() < other.Rank()
}

// String implements fmt.Stringer.
func (t Tier) String() string {
	return string(t)
}

// ParseTier converts a case-insensitive tier code into a Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedTier, s)
	}
	return t, nil
}
