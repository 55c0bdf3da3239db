package decisioncache

import (
	"testing"

	"github.com/haukened/halal-classifier/internal/halal/domain"
)

func haramDecision(t *testing.T, term string) domain.Decision {
	t.Helper()
	r, err := domain.NewKeywordRule(term, domain.TierHaram)
	if err != nil {
		t.Fatalf("NewKeywordRule: %v", err)
	}
	return domain.DecisionFor(r)
}

func TestDecisionCache_HitMissAndPut(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	d := haramDecision(t, "pork")

	if _, ok := c.Get("porkfat"); ok {
		t.Fatalf("expected miss before put")
	}

	c.Put("porkfat", d)

	got, ok := c.Get("porkfat")
	if !ok || got.Status != domain.StatusHaram || got.Rule.Term != "pork" {
		t.Fatalf("unexpected get: ok=%v got=%+v", ok, got)
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Capacity != 2 || st.Size != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestDecisionCache_CachesNullDecisions(t *testing.T) {
	c, err := New(4)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	c.Put("water", domain.NullDecision())
	got, ok := c.Get("water")
	if !ok || !got.IsNull() {
		t.Fatalf("expected cached null decision, got ok=%v d=%+v", ok, got)
	}
}

func TestDecisionCache_EvictionAndLen(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	c.Put("a", domain.NullDecision())
	c.Put("b", domain.NullDecision())
	if got := c.Len(); got != 2 {
		t.Fatalf("len=%d want=2", got)
	}
	c.Put("c", domain.NullDecision())
	if got := c.Len(); got != 2 {
		t.Fatalf("len=%d want=2 after eviction", got)
	}
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected least recently used entry to be evicted")
	}
	if ev := c.Stats().Evictions; ev != 1 {
		t.Fatalf("evictions=%d want=1", ev)
	}
}

func TestDecisionCache_PurgeCountsEvictions(t *testing.T) {
	c, err := New(3)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	c.Put("a", domain.NullDecision())
	c.Put("b", domain.NullDecision())
	c.Put("c", domain.NullDecision())

	c.Purge()
	if got := c.Len(); got != 0 {
		t.Fatalf("len=%d want=0 after purge", got)
	}
	if ev := c.Stats().Evictions; ev != 3 {
		t.Fatalf("evictions=%d want=3 after purge", ev)
	}
}

func TestDecisionCache_Disabled(t *testing.T) {
	c, err := New(0)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	c.Put("a", haramDecision(t, "pork"))
	if _, ok := c.Get("a"); ok {
		t.Fatalf("disabled cache should always miss")
	}
	if c.Len() != 0 {
		t.Fatalf("disabled cache len should be 0")
	}
	c.Purge()
	st := c.Stats()
	if st.Capacity != 0 || st.Hits != 0 || st.Misses != 1 {
		t.Fatalf("unexpected disabled stats: %+v", st)
	}
}
