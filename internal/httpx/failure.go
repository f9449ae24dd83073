package httpx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// FailureDetails carries diagnostic context for a normalized failure.
type FailureDetails struct {
	Operation string    `json:"operation"`
	Ticker    string    `json:"ticker,omitempty"`
	ErrorType string    `json:"error_type"`
	Attempt   int       `json:"attempt"`
	Timestamp time.Time `json:"timestamp"`
}

// Failure is the single error shape returned across all tool-facing
// boundaries. Tools hand it back as a plain result object so a failed fetch
// degrades the answer instead of aborting the session.
type Failure struct {
	Success bool           `json:"success"`
	Error   string         `json:"error"`
	Details FailureDetails `json:"details"`
}

// NewFailure normalizes any error into the standard failure shape.
func NewFailure(err error, operation, ticker string, attempt int) Failure {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Failure{
		Success: false,
		Error:   fmt.Sprintf("%s failed: %s", operation, msg),
		Details: FailureDetails{
			Operation: operation,
			Ticker:    ticker,
			ErrorType: errorType(err),
			Attempt:   attempt,
			Timestamp: time.Now().UTC(),
		},
	}
}

// HTTPFailure normalizes a non-OK HTTP status into the standard failure shape.
func HTTPFailure(status int, operation, ticker string, attempt int) Failure {
	f := NewFailure(fmt.Errorf("unexpected status %d", status), operation, ticker, attempt)
	f.Details.ErrorType = "http"
	return f
}

// AsMap renders the failure as the plain object tools return.
func (f Failure) AsMap() map[string]any {
	return map[string]any{
		"success": false,
		"error":   f.Error,
		"details": map[string]any{
			"operation":  f.Details.Operation,
			"ticker":     f.Details.Ticker,
			"error_type": f.Details.ErrorType,
			"attempt":    f.Details.Attempt,
			"timestamp":  f.Details.Timestamp.Format(time.RFC3339),
		},
	}
}

func errorType(err error) string {
	switch {
	case err == nil:
		return "unknown"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		var netErr net.Error
		if errors.As(err, &netErr) {
			if netErr.Timeout() {
				return "timeout"
			}
			return "network"
		}
		return "unknown"
	}
}
