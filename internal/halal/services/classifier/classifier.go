package classifier

import (
	"github.com/haukened/halal-classifier/internal/halal/common/log"
	"github.com/haukened/halal-classifier/internal/halal/domain"
)

// Classifier applies the fixed priority cascade to material names:
// exact override, then haram, review and halal keywords, then null.
type Classifier struct {
	overrides OverrideIndex
	haram     []domain.Rule
	review    []domain.Rule
	halal     []domain.Rule
	cache     DecisionCache
	logger    log.Logger
}

// Options configures a Classifier. Keyword slices are evaluated in order and
// the first match within a tier wins.
type Options struct {
	Overrides OverrideIndex
	Haram     []domain.Rule
	Review    []domain.Rule
	Halal     []domain.Rule
	Cache     DecisionCache // optional
	Logger    log.Logger    // optional
}

// New constructs a Classifier.
func New(opts Options) *Classifier {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Classifier{
		overrides: opts.Overrides,
		haram:     opts.Haram,
		review:    opts.Review,
		halal:     opts.Halal,
		cache:     opts.Cache,
		logger:    logger,
	}
}

// Classify returns the decision for a raw material name.
func (c *Classifier) Classify(name string) domain.Decision {
	normalized := domain.Normalize(name)

	if c.cache != nil {
		if d, ok := c.cache.Get(normalized); ok {
			return d
		}
	}

	d := c.decide(normalized)

	if c.cache != nil {
		c.cache.Put(normalized, d)
	}
	c.logger.Debug(map[string]any{
		"name":    name,
		"matched": d.Matched,
		"status":  statusField(d),
		"tier":    tierField(d),
	}, "classified")
	return d
}

func (c *Classifier) decide(normalized string) domain.Decision {
	if c.overrides != nil {
		if r, ok := c.overrides.Lookup(normalized); ok {
			return domain.DecisionFor(r)
		}
	}
	for _, tier := range [][]domain.Rule{c.haram, c.review, c.halal} {
		for _, r := range tier {
			if r.Matches(normalized) {
				return domain.DecisionFor(r)
			}
		}
	}
	// Unmatched names stay null; they are never forced into review.
	return domain.NullDecision()
}

// CacheStats returns the decision cache metrics, or zero stats without a cache.
func (c *Classifier) CacheStats() CacheStats {
	if c.cache == nil {
		return CacheStats{}
	}
	return c.cache.Stats()
}

func statusField(d domain.Decision) string {
	if d.IsNull() {
		return "null"
	}
	return d.Status.String()
}

// tierField names the matching tier. The zero Tier is TierOverride, so null
// decisions must not read it.
func tierField(d domain.Decision) string {
	if d.IsNull() {
		return "none"
	}
	return d.Rule.Tier.String()
}
