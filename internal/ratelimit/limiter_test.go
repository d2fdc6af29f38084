package ratelimit

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(window, eviction time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	return New(window, eviction).WithClock(clock.now), clock
}

func TestAllowRejectsDoubleSubmit(t *testing.T) {
	limiter, clock := newTestLimiter(5*time.Second, time.Minute)

	if !limiter.Allow("user-1") {
		t.Fatal("first submit should pass")
	}
	clock.advance(2 * time.Second)
	if limiter.Allow("user-1") {
		t.Fatal("submit inside the window should be rejected")
	}
	clock.advance(3 * time.Second)
	if !limiter.Allow("user-1") {
		t.Fatal("submit after the window should pass")
	}
}

func TestRejectionDoesNotExtendWindow(t *testing.T) {
	limiter, clock := newTestLimiter(5*time.Second, time.Minute)

	limiter.Allow("user-1")
	clock.advance(4 * time.Second)
	limiter.Allow("user-1") // rejected, must not reset the clock
	clock.advance(1 * time.Second)
	if !limiter.Allow("user-1") {
		t.Fatal("window should measure from the accepted submit")
	}
}

func TestActorsAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(5*time.Second, time.Minute)

	if !limiter.Allow("user-1") || !limiter.Allow("user-2") {
		t.Fatal("different actors must not block each other")
	}
}

func TestEvictionBoundsTheMap(t *testing.T) {
	limiter, clock := newTestLimiter(5*time.Second, time.Minute)

	limiter.Allow("user-1")
	limiter.Allow("user-2")
	clock.advance(time.Minute)
	limiter.Allow("user-3")

	if limiter.Len() != 1 {
		t.Errorf("stale entries should be evicted, have %d", limiter.Len())
	}
}
