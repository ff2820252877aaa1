package handlers

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistryAddGetRemove(t *testing.T) {
	r := NewSessionRegistry()

	if r.Count() != 0 {
		t.Fatalf("Count = %d, want 0", r.Count())
	}
	if r.Get("missing") != nil {
		t.Error("Get of an absent id should return nil")
	}

	s := &ScreenSession{ID: "s1"}
	r.Add(s)

	if r.Count() != 1 {
		t.Errorf("Count = %d, want 1", r.Count())
	}
	if r.Get("s1") != s {
		t.Error("Get did not return the added session")
	}

	// Replacing the same id keeps the count stable.
	replacement := &ScreenSession{ID: "s1"}
	r.Add(replacement)
	if r.Count() != 1 {
		t.Errorf("Count after replace = %d, want 1", r.Count())
	}
	if r.Get("s1") != replacement {
		t.Error("Add should replace the stale entry")
	}

	r.Remove("s1")
	if r.Count() != 0 {
		t.Errorf("Count after remove = %d, want 0", r.Count())
	}

	// Removing an absent id is a no-op.
	r.Remove("s1")
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewSessionRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			r.Add(&ScreenSession{ID: id})
			r.Get(id)
			r.Count()
			if i%2 == 0 {
				r.Remove(id)
			}
		}(i)
	}
	wg.Wait()

	if r.Count() != 10 {
		t.Errorf("Count = %d, want 10", r.Count())
	}
}
