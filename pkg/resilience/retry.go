package resilience

import "time"

// RetryPolicy retries an idempotent operation a bounded number of times
// with a fixed pause between attempts. Only the one-shot batch request is
// safe to repeat; the streaming session never retries, since audio already
// sent cannot be replayed.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// NewRetryPolicy clamps non-positive values to usable defaults.
func NewRetryPolicy(maxRetries int, backoff time.Duration) RetryPolicy {
	if maxRetries <= 0 {
		maxRetries = 2
	}
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	return RetryPolicy{MaxRetries: maxRetries, Backoff: backoff}
}

// Do runs fn until it succeeds or the retry budget is spent, returning the
// last error untouched. Reason codes attached inside fn survive, so callers
// can still classify the failure after retries are exhausted.
func (r RetryPolicy) Do(fn func() error) error {
	attempts := r.MaxRetries + 1
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt < attempts {
			time.Sleep(r.Backoff)
		}
	}
	return err
}
