package cache

import (
	"testing"
	"time"
)

// TestGetSet verifies basic store and retrieve
func TestGetSet(t *testing.T) {
	c := New[string](4, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache returned a value")
	}

	c.Set("a", "alpha")
	got, ok := c.Get("a")
	if !ok || got != "alpha" {
		t.Errorf("Get(a) = %q, %v; want alpha, true", got, ok)
	}
}

// TestUpdateExistingKey verifies setting the same key replaces the value
// without growing the cache
func TestUpdateExistingKey(t *testing.T) {
	c := New[int](4, time.Minute)
	c.Set("k", 1)
	c.Set("k", 2)

	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	if got, _ := c.Get("k"); got != 2 {
		t.Errorf("Get(k) = %d, want 2", got)
	}
}

// TestLRUEviction verifies the least recently used entry is evicted first
func TestLRUEviction(t *testing.T) {
	c := New[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	// Touch a so b becomes the eviction candidate.
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should have survived")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should be present")
	}
}

// TestTTLExpiry verifies expired entries are dropped on access
func TestTTLExpiry(t *testing.T) {
	c := New[int](4, 10*time.Millisecond)
	c.Set("k", 1)

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expired entry should not be returned")
	}
	if c.Len() != 0 {
		t.Errorf("Len after expiry access = %d, want 0", c.Len())
	}
}

// TestInvalidate verifies single-key removal
func TestInvalidate(t *testing.T) {
	c := New[int](4, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")

	if _, ok := c.Get("a"); ok {
		t.Error("invalidated key still present")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("unrelated key was dropped")
	}
}

// TestPurge verifies all entries are dropped at once
func TestPurge(t *testing.T) {
	c := New[int](4, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Purge()

	if c.Len() != 0 {
		t.Errorf("Len after purge = %d, want 0", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("purged key still present")
	}

	// The cache stays usable after a purge.
	c.Set("c", 3)
	if got, ok := c.Get("c"); !ok || got != 3 {
		t.Error("cache unusable after purge")
	}
}
