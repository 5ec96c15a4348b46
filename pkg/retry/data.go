package retry

import "time"

// RetryParam holds the parameters for retry logic.
// These parameters are passed from outside (e.g., config) and should not
// be known by the retry handler internally.
type RetryParam struct {
	// Delay is the fixed waiting time between two attempts. There is no
	// backoff growth: attempt N+1 starts exactly Delay after attempt N failed.
	Delay time.Duration
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts int
}

// NewRetryParam creates a new RetryParam with the given settings.
func NewRetryParam(delay time.Duration, maxAttempts int) RetryParam {
	return RetryParam{
		Delay:       delay,
		MaxAttempts: maxAttempts,
	}
}
