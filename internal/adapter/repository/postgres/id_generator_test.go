package postgres

import (
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestULIDGeneratorProducesUniqueSortableIDs(t *testing.T) {
	g := NewULIDGenerator()
	prev := g.Generate()
	if _, err := ulid.ParseStrict(prev); err != nil {
		t.Fatalf("invalid ulid %q: %v", prev, err)
	}

	seen := map[string]bool{prev: true}
	for i := 0; i < 100; i++ {
		id := g.Generate()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		if id < prev {
			t.Fatalf("ids not monotonic: %q after %q", id, prev)
		}
		seen[id] = true
		prev = id
	}
}

func TestULIDGeneratorMonotonicWithinSameMillisecond(t *testing.T) {
	frozen := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	g := newULIDGenerator(func() time.Time { return frozen }, ulid.DefaultEntropy())

	prev := g.Generate()
	for i := 0; i < 50; i++ {
		id := g.Generate()
		if id <= prev {
			t.Fatalf("ids not strictly increasing: %q after %q", id, prev)
		}
		parsed := ulid.MustParse(id)
		if got := ulid.Time(parsed.Time()); !got.Equal(frozen) {
			t.Fatalf("expected timestamp %s, got %s", frozen, got)
		}
		prev = id
	}
}

func TestULIDGeneratorConcurrentUse(t *testing.T) {
	g := NewULIDGenerator()

	var (
		mu   sync.Mutex
		seen = map[string]bool{}
		wg   sync.WaitGroup
	)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := g.Generate()
				mu.Lock()
				if seen[id] {
					t.Errorf("duplicate id %q", id)
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != 800 {
		t.Fatalf("expected 800 ids, got %d", len(seen))
	}
}
