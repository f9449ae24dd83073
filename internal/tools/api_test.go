package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/marketbrief/marketbrief/internal/httpx"
)

func fastAPIClient(baseURL string, client *http.Client) *APIClient {
	c := NewAPIClient(baseURL, client)
	c.retry = httpx.RetryOptions{
		MaxRetries: 1,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
		Timeout:    time.Second,
	}
	return c
}

func TestGetJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/quote/AAPL" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"ticker": "AAPL", "price": 187.5}`)
	}))
	defer srv.Close()

	c := fastAPIClient(srv.URL, srv.Client())
	result, err := c.getJSON(context.Background(), "/api/v1/quote/AAPL", "stock_quote", "AAPL", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["success"] != true {
		t.Fatal("success flag not injected")
	}
	if result["price"] != 187.5 {
		t.Fatalf("result = %v", result)
	}
}

func TestGetJSONNonOKReturnsFailureShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := fastAPIClient(srv.URL, srv.Client())
	result, err := c.getJSON(context.Background(), "/api/v1/quote/ZZZZ", "stock_quote", "ZZZZ", nil)
	if err != nil {
		t.Fatalf("non-OK status must not be an error, got: %v", err)
	}
	if result["success"] != false {
		t.Fatalf("result = %v, want failure shape", result)
	}
	msg, _ := result["error"].(string)
	if !strings.Contains(msg, "stock_quote failed") {
		t.Fatalf("error = %q", msg)
	}
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"price": 10}`)
	}))
	defer srv.Close()

	c := fastAPIClient(srv.URL, srv.Client())
	result, err := c.getJSON(context.Background(), "/api/v1/quote/AAPL", "stock_quote", "AAPL", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != 2 {
		t.Fatalf("hits = %d, want 2", hits)
	}
	if result["price"] != float64(10) {
		t.Fatalf("result = %v", result)
	}
}

func TestFinancialToolsCallExpectedPaths(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"ok": true}`)
	}))
	defer srv.Close()

	reg := NewRegistry(fastAPIClient(srv.URL, srv.Client()))

	cases := []struct {
		tool     string
		args     map[string]any
		wantPath string
		wantQ    string
	}{
		{"stock_quote", map[string]any{"ticker": "AAPL"}, "/api/v1/quote/AAPL", ""},
		{"company_fundamentals", map[string]any{"ticker": "AAPL", "metric": "pe_ratio", "period": "ttm"}, "/api/v1/fundamentals/AAPL", "metric=pe_ratio&period=ttm"},
		{"company_profile", map[string]any{"ticker": "MSFT"}, "/api/v1/profile/MSFT", ""},
		{"insider_activity", map[string]any{"ticker": "NVDA", "limit": float64(5)}, "/api/v1/insiders/NVDA", "limit=5"},
		{"analyst_ratings", map[string]any{"ticker": "TSM"}, "/api/v1/ratings/TSM", ""},
	}
	for _, tc := range cases {
		if _, err := reg.Execute(context.Background(), tc.tool, tc.args); err != nil {
			t.Fatalf("%s: %v", tc.tool, err)
		}
		if gotPath != tc.wantPath {
			t.Errorf("%s path = %s, want %s", tc.tool, gotPath, tc.wantPath)
		}
		if gotQuery != tc.wantQ {
			t.Errorf("%s query = %s, want %s", tc.tool, gotQuery, tc.wantQ)
		}
	}
}

func TestFinancialToolsRequireTicker(t *testing.T) {
	reg := NewRegistry(fastAPIClient("http://unused", nil))
	for _, name := range reg.Names() {
		if _, err := reg.Execute(context.Background(), name, map[string]any{}); err == nil {
			t.Errorf("%s accepted empty args", name)
		}
	}
}
