package rules

import (
	"github.com/haukened/halal-classifier/internal/halal/domain"
)

// RuleSet is a loaded, validated rules file.
// Keyword slices keep file order; the first match in a tier wins.
type RuleSet struct {
	Source    string
	Overrides []domain.Rule
	Haram     []domain.Rule
	Review    []domain.Rule
	Halal     []domain.Rule
	Labels    map[domain.Status]string
}

// Label returns the output text for a status. Unknown statuses fall back to
// the status key.
func (rs *RuleSet) Label(s domain.Status) string {
	if l, ok := rs.Labels[s]; ok && l != "" {
		return l
	}
	return s.String()
}

// Len returns the total number of rules across all tiers.
func (rs *RuleSet) Len() int {
	return len(rs.Overrides) + len(rs.Haram) + len(rs.Review) + len(rs.Halal)
}

// Counts returns the number of rules per tier.
func (rs *RuleSet) Counts() map[domain.Tier]int {
	return map[domain.Tier]int{
		domain.TierOverride: len(rs.Overrides),
		domain.TierHaram:    len(rs.Haram),
		domain.TierReview:   len(rs.Review),
		domain.TierHalal:    len(rs.Halal),
	}
}

func defaultLabels() map[domain.Status]string {
	labels := make(map[domain.Status]string, len(domain.AllStatuses))
	for _, s := range domain.AllStatuses {
		labels[s] = s.String()
	}
	return labels
}
