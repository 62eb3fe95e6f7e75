package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(ttl time.Duration) (*MemoryCache[int], *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)}
	c := NewMemory[int](ttl)
	c.now = clk.now
	return c, clk
}

func TestGetSet(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Set("a", 1)
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Fatalf("expected 1, got %d (ok=%v)", v, ok)
	}
}

func TestExpiry(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("a", 1)
	clk.advance(time.Minute + time.Second)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected entry to expire")
	}
	if c.Len() != 0 {
		t.Fatalf("expected expired entry to be dropped on read, len=%d", c.Len())
	}
}

func TestSlidingRefresh(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("a", 1)
	for i := 0; i < 5; i++ {
		clk.advance(40 * time.Second)
		if _, ok := c.Get("a"); !ok {
			t.Fatalf("entry expired on read %d despite activity", i)
		}
	}
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected deleted entry to be gone")
	}
	c.Delete("missing")
}

func TestSweep(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("old", 1)
	clk.advance(45 * time.Second)
	c.Set("new", 2)
	clk.advance(30 * time.Second)

	if n := c.Sweep(clk.now()); n != 1 {
		t.Fatalf("expected 1 swept, got %d", n)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 remaining, got %d", c.Len())
	}
	if _, ok := c.Get("new"); !ok {
		t.Fatal("expected fresh entry to survive sweep")
	}
}
