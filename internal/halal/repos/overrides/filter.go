package overrides

import (
	"sync"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"
)

// filter wraps a bits-and-blooms BloomFilter with a mutex for writes.
// MightContain is safe to call concurrently once building is done.
type filter struct {
	mu sync.RWMutex
	bf *bitsbloom.BloomFilter
}

func newFilter(capacity uint64, fpRate float64) *filter {
	m, k := bloomSize(capacity, fpRate)
	return &filter{bf: bitsbloom.New(uint(m), uint(k))}
}

func (f *filter) Add(key string) {
	f.mu.Lock()
	f.bf.AddString(key)
	f.mu.Unlock()
}

func (f *filter) MightContain(key string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bf.TestString(key)
}
