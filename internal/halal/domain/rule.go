package domain

import (
	"fmt"
	"strings"
)

// Tier is one level of the classification cascade. Tiers are evaluated in
// declaration order and the order is not configurable.
type Tier uint8

const (
	// TierOverride matches the whole normalized name exactly.
	TierOverride Tier = iota
	// TierHaram matches a haram keyword contained in the name.
	TierHaram
	// TierReview matches a review keyword contained in the name.
	TierReview
	// TierHalal matches a halal keyword contained in the name.
	TierHalal
)

// Tiers lists the cascade in evaluation order.
var Tiers = []Tier{TierOverride, TierHaram, TierReview, TierHalal}

// String returns a stable string representation of the tier.
func (t Tier) String() string {
	switch t {
	case TierOverride:
		return "override"
	case TierHaram:
		return "haram"
	case TierReview:
		return "review"
	case TierHalal:
		return "halal"
	default:
		return fmt.Sprintf("Tier(%d)", t)
	}
}

// KeywordStatus returns the status a keyword tier assigns. Override rules
// carry their own status, so TierOverride reports false.
func (t Tier) KeywordStatus() (Status, bool) {
	switch t {
	case TierHaram:
		return StatusHaram, true
	case TierReview:
		return StatusReview, true
	case TierHalal:
		return StatusHalal, true
	default:
		return 0, false
	}
}

// Rule is a single classification rule loaded from a rules file.
//
// Notes:
// - Term is kept as written so reasons can quote it.
// - Key is the normalized term used for matching.
type Rule struct {
	Term   string
	Key    string
	Tier   Tier
	Status Status
	Reason string
}

// NewOverrideRule builds an exact-match rule. An empty reason gets a default.
func NewOverrideRule(term string, status Status, reason string) (Rule, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "exact match override"
	}
	r := Rule{
		Term:   strings.TrimSpace(term),
		Key:    Normalize(term),
		Tier:   TierOverride,
		Status: status,
		Reason: reason,
	}
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// NewKeywordRule builds a contains rule for one of the keyword tiers.
func NewKeywordRule(term string, tier Tier) (Rule, error) {
	status, ok := tier.KeywordStatus()
	if !ok {
		return Rule{}, fmt.Errorf("tier %s is not a keyword tier", tier)
	}
	r := Rule{
		Term:   strings.TrimSpace(term),
		Key:    Normalize(term),
		Tier:   tier,
		Status: status,
	}
	r.Reason = fmt.Sprintf("contains %s keyword: %s", status, r.Term)
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// Validate checks the Rule for required fields and supported values.
func (r Rule) Validate() error {
	if r.Key == "" {
		return fmt.Errorf("rule term %q is empty after normalization", r.Term)
	}
	if !r.Status.Valid() {
		return fmt.Errorf("unsupported status: %d", r.Status)
	}
	switch r.Tier {
	case TierOverride, TierHaram, TierReview, TierHalal:
		// ok
	default:
		return fmt.Errorf("unsupported tier: %d", r.Tier)
	}
	return nil
}

// IsOverride returns true when the rule is an exact-match override.
func (r Rule) IsOverride() bool { return r.Tier == TierOverride }

// Matches reports whether the rule applies to an already-normalized name.
func (r Rule) Matches(normalized string) bool {
	if r.IsOverride() {
		return r.Key != "" && r.Key == normalized
	}
	return keyMatch(normalized, r.Key)
}
