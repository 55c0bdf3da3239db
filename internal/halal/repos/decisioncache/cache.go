package decisioncache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/haukened/halal-classifier/internal/halal/domain"
	"github.com/haukened/halal-classifier/internal/halal/services/classifier"
)

// decisionCache is an LRU-backed implementation of classifier.DecisionCache.
// It tracks basic metrics: hits, misses, and evictions.
type decisionCache struct {
	lru       *lru.Cache[string, domain.Decision]
	capacity  int
	hits      uint64
	misses    uint64
	evictions uint64
}

// disabledCache is a no-op DecisionCache used when size <= 0.
type disabledCache struct {
	misses uint64
}

// New creates a new DecisionCache with the given capacity. If size <= 0, a
// disabled cache is returned that always misses.
func New(size int) (classifier.DecisionCache, error) {
	if size <= 0 {
		return &disabledCache{}, nil
	}

	dc := &decisionCache{capacity: size}
	// NewWithEvict observes evictions, including Purge-induced ones.
	cache, err := lru.NewWithEvict(size, func(_ string, _ domain.Decision) {
		atomic.AddUint64(&dc.evictions, 1)
	})
	if err != nil {
		return nil, err
	}
	dc.lru = cache
	return dc, nil
}

// Get looks up a decision by normalized name. When found, increments hits; otherwise increments misses.
func (c *decisionCache) Get(name string) (domain.Decision, bool) {
	if val, ok := c.lru.Get(name); ok {
		atomic.AddUint64(&c.hits, 1)
		return val, true
	}
	atomic.AddUint64(&c.misses, 1)
	return domain.Decision{}, false
}

// Put stores a decision by normalized name. Null decisions are cached too.
func (c *decisionCache) Put(name string, d domain.Decision) {
	c.lru.Add(name, d)
}

func (c *decisionCache) Len() int { return c.lru.Len() }

// Purge clears all entries. Evictions are counted via the eviction callback.
func (c *decisionCache) Purge() { c.lru.Purge() }

func (c *decisionCache) Stats() classifier.CacheStats {
	return classifier.CacheStats{
		Capacity:  c.capacity,
		Size:      c.lru.Len(),
		Hits:      atomic.LoadUint64(&c.hits),
		Misses:    atomic.LoadUint64(&c.misses),
		Evictions: atomic.LoadUint64(&c.evictions),
	}
}

// disabledCache implementation

func (d *disabledCache) Get(string) (domain.Decision, bool) {
	atomic.AddUint64(&d.misses, 1)
	return domain.Decision{}, false
}

func (d *disabledCache) Put(string, domain.Decision) {}

func (d *disabledCache) Len() int { return 0 }

func (d *disabledCache) Purge() {}

func (d *disabledCache) Stats() classifier.CacheStats {
	return classifier.CacheStats{Misses: atomic.LoadUint64(&d.misses)}
}

var _ classifier.DecisionCache = (*decisionCache)(nil)
var _ classifier.DecisionCache = (*disabledCache)(nil)
