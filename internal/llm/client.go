// Package llm abstracts the language-model integration behind two call
// shapes: a plain completion and a streaming completion. A schema-validated
// structured call is layered on top in structured.go.
package llm

import (
	"context"
	"time"

	"github.com/marketbrief/marketbrief/internal/httpx"
)

// Request carries one system/user instruction pair to the model.
type Request struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// Client is implemented by each provider integration.
type Client interface {
	// Complete returns the model's full text reply.
	Complete(ctx context.Context, req Request) (string, error)
	// Stream produces incremental text chunks. The text channel is closed
	// when generation finishes; a value on the error channel terminates the
	// stream.
	Stream(ctx context.Context, req Request) (<-chan string, <-chan error)
}

// CompleteWithRetry wraps Complete in the standard model retry policy.
func CompleteWithRetry(ctx context.Context, c Client, req Request, onRetry func(attempt int, delay time.Duration, err error)) (string, error) {
	return httpx.Retry(ctx, httpx.DefaultModelRetryPolicy(), func(ctx context.Context) (string, error) {
		return c.Complete(ctx, req)
	}, ClassifyModelError, onRetry)
}
