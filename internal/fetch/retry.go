// internal/fetch/retry.go

package fetch

import "time"

// RetryPolicy bounds the attempts for one URL. Proxy-then-direct fallback
// happens inside a single attempt and does not count twice.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy matches the production tuning: three attempts total
// with a one second base delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}
}

// Backoff returns how long to sleep after the given 1-based attempt. Delays
// grow linearly, and double when the failure was a challenge so the target
// gets more room to cool off.
func (p RetryPolicy) Backoff(attempt int, challenged bool) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := p.BaseDelay * time.Duration(attempt)
	if challenged {
		delay *= 2
	}
	return delay
}

func (p RetryPolicy) normalized() RetryPolicy {
	out := p
	if out.MaxAttempts <= 0 {
		out.MaxAttempts = 3
	}
	if out.BaseDelay <= 0 {
		out.BaseDelay = time.Second
	}
	return out
}
