// Package ratelimit guards list creation against accidental double
// submission. One entry per actor, evicted inline on the next call once
// stale; the map stays proportional to recently active users.
package ratelimit
