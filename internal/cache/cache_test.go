package cache

import (
	"testing"
	"time"
)

func TestGetWithinWindow(t *testing.T) {
	t.Parallel()

	c := New()
	c.Put("coins", []string{"bitcoin"})

	got, ok := c.Get("coins", time.Minute)
	if !ok {
		t.Fatal("expected cache hit")
	}
	coins, ok := got.([]string)
	if !ok || len(coins) != 1 || coins[0] != "bitcoin" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestGetAfterWindowMisses(t *testing.T) {
	t.Parallel()

	c := New()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	c.Put("coins", "payload")

	// Advance the clock past the window; the entry must be bypassed but
	// still stored.
	c.now = func() time.Time { return base.Add(61 * time.Second) }
	if _, ok := c.Get("coins", time.Minute); ok {
		t.Fatal("expected miss after window elapsed")
	}
	if c.Len() != 1 {
		t.Fatalf("stale entry should remain stored, len=%d", c.Len())
	}

	// A refill makes the key servable again.
	c.Put("coins", "fresh")
	got, ok := c.Get("coins", time.Minute)
	if !ok || got != "fresh" {
		t.Fatalf("expected fresh payload after refill, got %v ok=%v", got, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("refill must overwrite, not append, len=%d", c.Len())
	}
}

func TestGetExactWindowBoundaryMisses(t *testing.T) {
	t.Parallel()

	c := New()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	c.Put("k", 1)

	c.now = func() time.Time { return base.Add(time.Minute) }
	if _, ok := c.Get("k", time.Minute); ok {
		t.Fatal("age equal to window must be a miss")
	}
}

func TestPutOverwrites(t *testing.T) {
	t.Parallel()

	c := New()
	c.Put("k", "old")
	c.Put("k", "new")

	got, ok := c.Get("k", time.Minute)
	if !ok || got != "new" {
		t.Fatalf("expected overwritten payload, got %v", got)
	}
}

func TestDeriveKey(t *testing.T) {
	t.Parallel()

	a := DeriveKey("chart", "asset=bitcoin", "vs=usd", "days=90")
	b := DeriveKey("chart", "asset=bitcoin", "vs=usd", "days=90")
	if a != b {
		t.Fatalf("identical requests must share a key: %q vs %q", a, b)
	}

	distinct := []string{
		DeriveKey("chart", "asset=ethereum", "vs=usd", "days=90"),
		DeriveKey("chart", "asset=bitcoin", "vs=usd", "days=30"),
		DeriveKey("coins", "asset=bitcoin", "vs=usd", "days=90"),
		DeriveKey("chart"),
	}
	for _, k := range distinct {
		if k == a {
			t.Fatalf("differing requests must not collide on %q", k)
		}
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := New()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				c.Put("shared", n)
				c.Get("shared", time.Minute)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	if c.Len() != 1 {
		t.Fatalf("expected a single entry, got %d", c.Len())
	}
}
