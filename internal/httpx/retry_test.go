package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fastOptions(maxRetries int) RetryOptions {
	return RetryOptions{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
		Timeout:    time.Second,
	}
}

func TestFetchWithRetryEventualSuccess(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := FetchWithRetry(context.Background(), srv.Client(), req, fastOptions(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := hits.Load(); got != 3 {
		t.Fatalf("attempts = %d, want 3", got)
	}
}

func TestFetchWithRetryNonRetryableStatus(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := FetchWithRetry(context.Background(), srv.Client(), req, fastOptions(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("attempts = %d, want 1 (404 must not retry)", got)
	}
}

func TestFetchWithRetryExhaustionReturnsLastResponse(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := FetchWithRetry(context.Background(), srv.Client(), req, fastOptions(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
	if got := hits.Load(); got != 3 {
		t.Fatalf("attempts = %d, want maxRetries+1 = 3", got)
	}
}

func TestFetchWithRetryRetriesTooManyRequests(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := FetchWithRetry(context.Background(), srv.Client(), req, fastOptions(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 after 429 retry", resp.StatusCode)
	}
}

func TestBackoffDelayNeverExceedsMax(t *testing.T) {
	max := 2 * time.Second
	for attempt := 0; attempt < 20; attempt++ {
		if d := backoffDelay(time.Second, max, attempt); d > max {
			t.Fatalf("attempt %d: delay %s exceeds max %s", attempt, d, max)
		}
	}
}

func fastPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestRetryNonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastPolicy(5), func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("bad request")
	}, func(error) RetryClass { return RetryClassNonRetryable }, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRetryRetryableEventuallySucceeds(t *testing.T) {
	calls := 0
	got, err := Retry(context.Background(), fastPolicy(5), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "done", nil
	}, func(error) RetryClass { return RetryClassRetryable }, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "done" || calls != 3 {
		t.Fatalf("got %q after %d calls, want done after 3", got, calls)
	}
}

func TestRetryMaybeClassCapped(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastPolicy(10), func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("maybe transient")
	}, func(error) RetryClass { return RetryClassMaybe }, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3 (two retries max for maybe class)", calls)
	}
}

func TestRetryReportsAttempts(t *testing.T) {
	var reported []int
	calls := 0
	_, err := Retry(context.Background(), fastPolicy(2), func(ctx context.Context) (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("transient")
		}
		return 7, nil
	}, func(error) RetryClass { return RetryClassRetryable }, func(attempt int, delay time.Duration, err error) {
		reported = append(reported, attempt)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reported) != 1 || reported[0] != 1 {
		t.Fatalf("reported = %v, want [1]", reported)
	}
}
