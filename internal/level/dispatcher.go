package level

import (
	"fmt"
	"strings"

	"github.com/phrazzld/scry-tutor/internal/domain"
)

// UnsupportedTierError is returned when no policy is registered for a tier.
type UnsupportedTierError struct {
	Tier domain.Tier
}

// Error implements the error interface.
func (e *UnsupportedTierError) Error() string {
	return fmt.Sprintf("%v: %q", domain.ErrUnsupportedTier, string(e.Tier))
}

// Unwrap lets errors.Is match domain.ErrUnsupportedTier.
func (e *UnsupportedTierError) Unwrap() error {
	return domain.ErrUnsupportedTier
}

// Dispatcher routes tier-based requests to the matching Policy. It is the
// only place tier codes are looked up.
type Dispatcher struct {
	policies map[domain.Tier]Policy
}

// NewDispatcher returns a dispatcher with all six tier policies registered.
func NewDispatcher() *Dispatcher {
	return NewDispatcherWith(map[domain.Tier]Policy{
		domain.TierA1: NewA1Policy(),
		domain.TierA2: NewA2Policy(),
		domain.TierB1: NewB1Policy(),
		domain.TierB2: NewB2Policy(),
		domain.TierC1: NewC1Policy(),
		domain.TierC2: NewC2Policy(),
	})
}

// NewDispatcherWith returns a dispatcher over the given policies. The map is
// copied; later changes to it have no effect.
func NewDispatcherWith(policies map[domain.Tier]Policy) *Dispatcher {
	copied := make(map[domain.Tier]Policy, len(policies))
	for tier, p := range policies {
		copied[tier] = p
	}
	return &Dispatcher{policies: copied}
}

// Policy returns the policy for tier. Tier codes are matched case-insensitively.
func (d *Dispatcher) Policy(tier domain.Tier) (Policy, error) {
	p, ok := d.policies[domain.Tier(strings.ToUpper(strings.TrimSpace(string(tier))))]
	if !ok {
		return nil, &UnsupportedTierError{Tier: tier}
	}
	return p, nil
}

// GenerateLesson delegates to the policy for the learner's tier.
func (d *Dispatcher) GenerateLesson(profile domain.LearnerProfile, topic domain.LearningTopic, length domain.SessionLength) (domain.GeneratedLesson, error) {
	p, err := d.Policy(profile.Tier)
	if err != nil {
		return domain.GeneratedLesson{}, err
	}
	return p.GenerateLesson(profile, topic, length), nil
}

// VocabularyForLevel delegates to the policy for tier.
func (d *Dispatcher) VocabularyForLevel(tier domain.Tier, words []string) ([]string, error) {
	p, err := d.Policy(tier)
	if err != nil {
		return nil, err
	}
	return p.VocabularyForLevel(words), nil
}

// VocabularyGuide delegates to the policy for tier.
func (d *Dispatcher) VocabularyGuide(tier domain.Tier) (string, error) {
	p, err := d.Policy(tier)
	if err != nil {
		return "", err
	}
	return p.VocabularyGuide(), nil
}
