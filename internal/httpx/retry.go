// Package httpx provides bounded-time, bounded-retry execution wrappers for
// outbound calls: HTTP fetches against the data API, and generic retry for
// any operation that can classify its own errors.
package httpx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"time"
)

// RetryClass indicates whether an error should be retried.
type RetryClass string

const (
	RetryClassRetryable    RetryClass = "retryable"
	RetryClassMaybe        RetryClass = "maybe" // retry with limited attempts
	RetryClassNonRetryable RetryClass = "non_retryable"
)

// RetryOptions configures FetchWithRetry.
type RetryOptions struct {
	MaxRetries int           // additional attempts after the first (total = MaxRetries+1)
	BaseDelay  time.Duration // first backoff delay
	MaxDelay   time.Duration // backoff cap
	Timeout    time.Duration // per-attempt timeout
	// RetryOn decides whether a failed attempt should be retried. Exactly one
	// of err/resp is set. Nil means DefaultRetryOn.
	RetryOn func(err error, resp *http.Response) bool
}

// DefaultRetryOptions returns the standard retry configuration for data-API
// fetches.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   10 * time.Second,
		Timeout:    30 * time.Second,
	}
}

// DefaultRetryOn retries timeouts, network-level failures, HTTP 429 and any
// 5xx. Everything else (other 4xx included) is handed back to the caller.
func DefaultRetryOn(err error, resp *http.Response) bool {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return true
		}
		var netErr net.Error
		if errors.As(err, &netErr) {
			return true
		}
		return false
	}
	if resp == nil {
		return false
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
}

// FetchWithRetry issues req under a per-attempt timeout, retrying with
// exponential backoff and jitter when RetryOn approves. After retries are
// exhausted it returns the last response (non-OK responses are not errors) or
// the last transport error.
//
// The response body is fully read under the attempt timeout and replaced with
// an in-memory reader, so the caller never races the timeout while decoding.
func FetchWithRetry(ctx context.Context, client *http.Client, req *http.Request, opts RetryOptions) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	retryOn := opts.RetryOn
	if retryOn == nil {
		retryOn = DefaultRetryOn
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRetryOptions().Timeout
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultRetryOptions().BaseDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = DefaultRetryOptions().MaxDelay
	}

	var lastResp *http.Response
	var lastErr error

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		resp, err := fetchOnce(ctx, client, req, opts.Timeout)
		if err == nil && !retryOn(nil, resp) {
			return resp, nil
		}
		if err != nil && !retryOn(err, nil) {
			return nil, err
		}
		lastResp, lastErr = resp, err

		if attempt == opts.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("fetch cancelled during backoff: %w", ctx.Err())
		case <-time.After(backoffDelay(opts.BaseDelay, opts.MaxDelay, attempt)):
		}
	}

	if lastResp != nil {
		return lastResp, nil
	}
	return nil, lastErr
}

// fetchOnce performs one attempt and buffers the body so the attempt's
// deadline cannot invalidate it later.
func fetchOnce(ctx context.Context, client *http.Client, req *http.Request, timeout time.Duration) (*http.Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := client.Do(req.Clone(attemptCtx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

// backoffDelay computes min(base * 2^attempt + jitter, max) with up to one
// second of random jitter.
func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	delay := base << uint(attempt)
	if delay <= 0 || delay > max {
		delay = max
	}
	jitter := time.Duration(rand.Int63n(int64(time.Second)))
	if delay+jitter > max {
		return max
	}
	return delay + jitter
}

// RetryPolicy defines retry behavior for generic (non-HTTP) operations.
type RetryPolicy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// DefaultModelRetryPolicy is the policy applied to language-model calls.
func DefaultModelRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// Retry executes fn with retry logic based on the policy, classifying each
// failure to decide whether another attempt is worthwhile. "maybe" class
// errors are limited to two retries regardless of the policy.
func Retry[T any](
	ctx context.Context,
	policy RetryPolicy,
	fn func(ctx context.Context) (T, error),
	classify func(error) RetryClass,
	onRetry func(attempt int, delay time.Duration, err error),
) (T, error) {
	var zero T
	attempt := 0
	for {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		class := classify(err)
		if class == RetryClassNonRetryable {
			return zero, err
		}
		if attempt >= policy.MaxRetries || (class == RetryClassMaybe && attempt >= 2) {
			return zero, fmt.Errorf("retries exhausted after %d attempts: %w", attempt+1, err)
		}

		delay := policyDelay(policy, attempt)
		if onRetry != nil {
			onRetry(attempt+1, delay, err)
		}
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		case <-time.After(delay):
		}
		attempt++
	}
}

func policyDelay(policy RetryPolicy, attempt int) time.Duration {
	delay := float64(policy.InitialDelay)
	for i := 0; i < attempt; i++ {
		delay *= policy.Multiplier
	}
	if delay > float64(policy.MaxDelay) {
		delay = float64(policy.MaxDelay)
	}
	if policy.Jitter {
		delay += rand.Float64() * 0.2 * delay
	}
	return time.Duration(delay)
}
