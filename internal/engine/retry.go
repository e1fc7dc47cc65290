package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// RetryConfig controls backoff behavior for outbound calls.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig is tuned for the interactive paths (YouTube fetch,
// translate endpoint): the user is waiting on the request, so two retries
// and a short cap keep worst-case latency under the page timeout.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:  2,
	InitialWait: 700 * time.Millisecond,
	MaxWait:     6 * time.Second,
	Multiplier:  2.0,
}

// RetryDo runs fn up to MaxRetries+1 times with exponential backoff.
// Only transient errors are retried; non-retryable errors and context
// cancellation return immediately.
func RetryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	wait := rc.InitialWait
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isTransient(err) || attempt >= rc.MaxRetries {
			break
		}

		slog.Debug("retrying", slog.Int("attempt", attempt+1), slog.Duration("wait", wait), slog.Any("error", err))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
		wait = time.Duration(float64(wait) * rc.Multiplier)
		if wait > rc.MaxWait {
			wait = rc.MaxWait
		}
	}
	return zero, lastErr
}

// RetryHTTP sends an HTTP request with retry on transient failures.
// 429 and 5xx responses are consumed and retried; when attempts run out,
// the returned error carries ErrRateLimited (429) or ErrServiceUnavailable
// (5xx, transport failure) so handlers can map it without re-wrapping.
func RetryHTTP(ctx context.Context, rc RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	resp, err := RetryDo(ctx, rc, func() (*http.Response, error) {
		resp, err := fn()
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, &upstreamStatusError{code: resp.StatusCode}
		}
		return resp, nil
	})
	if err == nil {
		return resp, nil
	}
	var se *upstreamStatusError
	if errors.As(err, &se) {
		return nil, err // carries the domain sentinel via Unwrap
	}
	if isTransient(err) {
		return nil, fmt.Errorf("%w: %w", err, ErrServiceUnavailable)
	}
	return nil, err
}

// upstreamStatusError is a retryable 429/5xx response, folded into an error
// so RetryDo treats it like any other transient failure.
type upstreamStatusError struct {
	code int
}

func (e *upstreamStatusError) Error() string {
	return fmt.Sprintf("upstream HTTP %d", e.code)
}

// Unwrap surfaces the domain sentinel for the status class.
func (e *upstreamStatusError) Unwrap() error {
	if e.code == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	return ErrServiceUnavailable
}

// isTransient reports whether an error is worth another attempt:
// retryable upstream statuses, connection-level failures, DNS errors,
// and timeouts. Anything else (parse errors, domain errors, 4xx other
// than 429) fails fast.
func isTransient(err error) bool {
	var se *upstreamStatusError
	if errors.As(err, &se) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
