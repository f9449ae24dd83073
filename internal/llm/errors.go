package llm

import (
	"strings"

	"github.com/marketbrief/marketbrief/internal/httpx"
)

// ClassifyModelError maps a provider error onto a retry class. Providers
// surface failures as opaque error strings, so classification is by pattern.
func ClassifyModelError(err error) httpx.RetryClass {
	if err == nil {
		return httpx.RetryClassNonRetryable
	}
	msg := strings.ToLower(err.Error())

	switch {
	// Rate limits and server-side failures are worth retrying.
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "500"),
		strings.Contains(msg, "502"),
		strings.Contains(msg, "503"),
		strings.Contains(msg, "504"),
		strings.Contains(msg, "internal server error"),
		strings.Contains(msg, "bad gateway"),
		strings.Contains(msg, "service unavailable"),
		strings.Contains(msg, "overloaded"):
		return httpx.RetryClassRetryable
	case strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "temporary failure"),
		strings.Contains(msg, "timeout"):
		return httpx.RetryClassRetryable
	case strings.Contains(msg, "deadline exceeded"):
		return httpx.RetryClassMaybe
	case strings.Contains(msg, "context length"),
		strings.Contains(msg, "maximum context"),
		strings.Contains(msg, "token limit"):
		return httpx.RetryClassMaybe
	default:
		// Auth failures, bad requests, quota exhaustion, refusals: retrying
		// cannot help.
		return httpx.RetryClassNonRetryable
	}
}
