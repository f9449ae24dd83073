package agent

import (
	"context"

	"github.com/marketbrief/marketbrief/internal/llm"
)

// resolve obtains a structured value from the model through a three-tier
// chain: schema-validated decode of a first completion, then a second
// unconstrained completion with lenient JSON extraction, then the provided
// default. The returned bool reports whether a model-produced value was
// used; the default is the only path that returns false.
//
// Structured-output failure is never allowed to abort a session, so resolve
// returns no error.
func resolve[T any](ctx context.Context, c llm.Client, req llm.Request, schemaJSON string, def T) (T, bool) {
	var out T
	text, err := llm.CompleteWithRetry(ctx, c, req, nil)
	if err == nil {
		if derr := llm.DecodeValidated(text, schemaJSON, &out); derr == nil {
			return out, true
		}
		// The first reply exists but failed validation; a lenient decode of
		// the same text is cheaper than a second call and often enough.
		var lenient T
		if derr := llm.DecodeLenient(text, &lenient); derr == nil {
			return lenient, true
		}
	}

	text, err = llm.CompleteWithRetry(ctx, c, req, nil)
	if err == nil {
		var lenient T
		if derr := llm.DecodeLenient(text, &lenient); derr == nil {
			return lenient, true
		}
	}
	return def, false
}
