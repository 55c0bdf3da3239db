package classifier

import "github.com/haukened/halal-classifier/internal/halal/domain"

// OverrideIndex resolves exact-match overrides by normalized material name.
type OverrideIndex interface {
	Lookup(normalized string) (domain.Rule, bool)
	Len() int
}

// CacheStats reports lightweight cache metrics.
type CacheStats struct {
	Capacity  int    // configured capacity (0 for disabled cache)
	Size      int    // current number of entries
	Hits      uint64 // total cache hits since construction
	Misses    uint64 // total cache misses since construction
	Evictions uint64 // total evictions since construction
}

// DecisionCache memoizes decisions by normalized material name.
// Material exports repeat the same names many times.
type DecisionCache interface {
	Get(normalized string) (domain.Decision, bool)
	Put(normalized string, d domain.Decision)
	Len() int
	Purge()
	Stats() CacheStats
}
