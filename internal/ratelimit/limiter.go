package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks the last accepted submission per actor. A second attempt
// inside the window is rejected; entries older than the eviction horizon
// are dropped opportunistically on each call.
type Limiter struct {
	mu       sync.Mutex
	window   time.Duration
	eviction time.Duration
	now      func() time.Time
	last     map[string]time.Time
}

// New builds a Limiter. eviction should be comfortably larger than window
// so rejection decisions never depend on eviction timing.
func New(window, eviction time.Duration) *Limiter {
	if window <= 0 {
		window = 5 * time.Second
	}
	if eviction < window {
		eviction = 12 * window
	}
	return &Limiter{
		window:   window,
		eviction: eviction,
		now:      time.Now,
		last:     make(map[string]time.Time),
	}
}

// WithClock overrides the time source. Tests only.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if now != nil {
		l.now = now
	}
	return l
}

// Allow reports whether the actor may submit now, recording the attempt
// when accepted. Rejected attempts do not extend the window; a user
// double-clicking twice is still unblocked when the original window ends.
func (l *Limiter) Allow(actor string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)

	if last, ok := l.last[actor]; ok && now.Sub(last) < l.window {
		return false
	}
	l.last[actor] = now
	return true
}

// Len reports the number of tracked actors.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.last)
}

func (l *Limiter) evict(now time.Time) {
	for actor, last := range l.last {
		if now.Sub(last) >= l.eviction {
			delete(l.last, actor)
		}
	}
}
