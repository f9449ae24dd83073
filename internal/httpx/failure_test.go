package httpx

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewFailureShape(t *testing.T) {
	f := NewFailure(errors.New("connection refused"), "stock_quote", "AAPL", 4)
	if f.Success {
		t.Fatal("failure must have Success=false")
	}
	if f.Error != "stock_quote failed: connection refused" {
		t.Fatalf("error = %q", f.Error)
	}
	if f.Details.Operation != "stock_quote" || f.Details.Ticker != "AAPL" || f.Details.Attempt != 4 {
		t.Fatalf("details = %+v", f.Details)
	}
	if f.Details.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}
}

func TestErrorTypeClassification(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{context.DeadlineExceeded, "timeout"},
		{context.Canceled, "cancelled"},
		{errors.New("anything else"), "unknown"},
		{nil, "unknown"},
	}
	for _, tc := range cases {
		if got := errorType(tc.err); got != tc.want {
			t.Errorf("errorType(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestHTTPFailureAsMap(t *testing.T) {
	m := HTTPFailure(503, "company_profile", "MSFT", 2).AsMap()
	if m["success"] != false {
		t.Fatal("success must be false")
	}
	msg, _ := m["error"].(string)
	if !strings.Contains(msg, "company_profile failed") || !strings.Contains(msg, "503") {
		t.Fatalf("error = %q", msg)
	}
	details, ok := m["details"].(map[string]any)
	if !ok {
		t.Fatal("details missing")
	}
	if details["error_type"] != "http" || details["ticker"] != "MSFT" || details["attempt"] != 2 {
		t.Fatalf("details = %v", details)
	}
}
