// Package overrides holds the exact-match override index consulted before any
// keyword tier. Lookups pass through a Bloom filter so that the common case,
// a name with no override, is answered without touching the map.
package overrides

import (
	"fmt"
	"sync/atomic"

	"github.com/haukened/halal-classifier/internal/halal/domain"
	"github.com/haukened/halal-classifier/internal/halal/services/classifier"
)

// Index implements classifier.OverrideIndex.
type Index struct {
	bloom *filter
	rules map[string]domain.Rule

	bloomRejects uint64
	lookups      uint64
}

// Stats reports how often the Bloom filter short-circuited a lookup.
type Stats struct {
	Entries      int
	Lookups      uint64
	BloomRejects uint64
}

// New builds an index from override rules. Rules must already be
// de-duplicated by key; a repeated key is an error.
func New(rules []domain.Rule, fpRate float64) (*Index, error) {
	idx := &Index{
		bloom: newFilter(uint64(len(rules)), fpRate),
		rules: make(map[string]domain.Rule, len(rules)),
	}
	for _, r := range rules {
		if !r.IsOverride() {
			return nil, fmt.Errorf("rule %q is a %s rule, not an override", r.Term, r.Tier)
		}
		if _, dup := idx.rules[r.Key]; dup {
			return nil, fmt.Errorf("duplicate override key %q", r.Key)
		}
		idx.rules[r.Key] = r
		idx.bloom.Add(r.Key)
	}
	return idx, nil
}

// Lookup returns the override for an already-normalized name.
func (i *Index) Lookup(normalized string) (domain.Rule, bool) {
	atomic.AddUint64(&i.lookups, 1)
	if normalized == "" {
		return domain.Rule{}, false
	}
	if !i.bloom.MightContain(normalized) {
		atomic.AddUint64(&i.bloomRejects, 1)
		return domain.Rule{}, false
	}
	r, ok := i.rules[normalized]
	return r, ok
}

// Len returns the number of overrides.
func (i *Index) Len() int { return len(i.rules) }

// Stats returns lookup counters.
func (i *Index) Stats() Stats {
	return Stats{
		Entries:      len(i.rules),
		Lookups:      atomic.LoadUint64(&i.lookups),
		BloomRejects: atomic.LoadUint64(&i.bloomRejects),
	}
}

var _ classifier.OverrideIndex = (*Index)(nil)
