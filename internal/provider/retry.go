package provider

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"
)

const (
	// DefaultMaxAttempts is the total number of tries, i.e. one retry.
	DefaultMaxAttempts = 2
	// DefaultBaseDelay is the backoff before the second attempt.
	DefaultBaseDelay = 400 * time.Millisecond
)

// RetryPolicy decides whether and when a failed request is tried again.
// Only transport-level failures are retried; an HTTP response of any status
// is a provider decision and is surfaced as-is.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy returns the policy used by all network providers.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, BaseDelay: DefaultBaseDelay}
}

// ShouldRetry reports whether a request that failed on the given attempt
// (1-based) should be tried again.
func (p RetryPolicy) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt >= p.maxAttempts() {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Delay returns the backoff to wait after the given failed attempt:
// BaseDelay * 2^(attempt-1).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	return p.BaseDelay << (attempt - 1)
}

func (p RetryPolicy) maxAttempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
