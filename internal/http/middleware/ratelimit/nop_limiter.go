package ratelimit

// NopLimiter admits every request. It stands in for the token bucket when
// rate limiting is disabled in config.
type NopLimiter struct{}

// Allow always returns true
func (NopLimiter) Allow(string) bool { return true }

// NewNopLimiter returns NopLimiter
func NewNopLimiter() Limiter { return NopLimiter{} }
