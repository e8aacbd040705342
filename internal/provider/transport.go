package provider

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// RetryTransport is an http.RoundTripper that retries transport-level
// failures according to a RetryPolicy. Every network provider, including
// the SDK-backed ones, sends its requests through it.
type RetryTransport struct {
	Base   http.RoundTripper
	Policy RetryPolicy

	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryTransport wraps base (http.DefaultTransport when nil).
func NewRetryTransport(base http.RoundTripper, policy RetryPolicy) *RetryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RetryTransport{Base: base, Policy: policy, sleep: sleepContext}
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	sleep := t.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 1; ; attempt++ {
		r := req
		if attempt > 1 {
			var err error
			if r, err = rewind(req); err != nil {
				return nil, err
			}
		}

		resp, err := t.Base.RoundTrip(r)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil || !t.Policy.ShouldRetry(err, attempt) || !rewindable(req) {
			return nil, err
		}

		delay := t.Policy.Delay(attempt)
		log.Printf("[transport] %s %s failed (attempt %d/%d): %v; retrying in %s",
			req.Method, req.URL.Host, attempt, t.Policy.maxAttempts(), err, delay)
		if serr := sleep(ctx, delay); serr != nil {
			return nil, err
		}
	}
}

func rewindable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func rewind(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewind request body: %w", err)
		}
		r.Body = body
	}
	return r, nil
}

// NewHTTPClient returns a client whose transport applies policy.
func NewHTTPClient(base http.RoundTripper, policy RetryPolicy) *http.Client {
	return &http.Client{Transport: NewRetryTransport(base, policy)}
}

// performRequest sends req and returns the full body and status code.
// Transport failures are returned unchanged after the retry policy gave up.
func performRequest(client *http.Client, req *http.Request) ([]byte, int, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// transportError classifies a failure from performRequest.
func transportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return Cancelled(ctx.Err())
	}
	return &NetworkError{Err: err}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
