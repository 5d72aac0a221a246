package retry

import "time"

// Default policy values
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// Policy maps an attempt number to a backoff delay and caps the number of
// attempts. It is pure: no clock, no side effects.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultPolicy returns the policy used when no configuration overrides it.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
	}
}

// Delay returns the wait before re-running attempt+1. The delay doubles
// with each attempt: base, 2*base, 4*base, ...
// Attempts below 1 are treated as 1.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.BaseDelay << (attempt - 1)
}
