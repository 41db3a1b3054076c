// Package retry provides the backoff policy used by the stream consumer
// when the event endpoint drops the connection.
package retry

import "time"

// Defaults for reconnect pacing.
const (
	DefaultFloor       = 1000 * time.Millisecond
	DefaultCap         = 30000 * time.Millisecond
	DefaultMaxAttempts = 5
)

// Policy describes an exponential backoff schedule. The zero value is
// not useful; construct with NewPolicy.
type Policy struct {
	Floor       time.Duration
	Cap         time.Duration
	MaxAttempts int
}

// NewPolicy returns the default reconnect policy.
func NewPolicy() Policy {
	return Policy{
		Floor:       DefaultFloor,
		Cap:         DefaultCap,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// NextDelay returns the wait before reconnect attempt number attempt,
// counting from 1. The delay doubles each attempt, starting at Floor
// and never exceeding Cap.
func (p Policy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := p.Floor
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.Cap {
			return p.Cap
		}
	}
	if delay > p.Cap {
		return p.Cap
	}
	return delay
}

// Exhausted reports whether attempt exceeds the policy's attempt budget.
// A MaxAttempts of zero or less means unlimited attempts.
func (p Policy) Exhausted(attempt int) bool {
	return p.MaxAttempts > 0 && attempt > p.MaxAttempts
}
