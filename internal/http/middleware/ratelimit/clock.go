package ratelimit

import "time"

// Clock supplies the time used for token refill and bucket expiry; tests
// substitute a fake to step through refill windows deterministically.
type Clock interface {
	Now() time.Time
}

// RealClock is the wall clock used in production wiring.
type RealClock struct{}

// Now returns current time.
func (RealClock) Now() time.Time { return time.Now() }
