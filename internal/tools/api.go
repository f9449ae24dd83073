package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/marketbrief/marketbrief/internal/httpx"
)

// APIClient talks to the internal pre-aggregated financial data API. Every
// fetch goes through the retry wrapper; terminal HTTP failures come back as
// the normalized failure object so tools degrade instead of aborting.
type APIClient struct {
	baseURL string
	http    *http.Client
	retry   httpx.RetryOptions
}

// NewAPIClient creates a data-API client. httpClient may be nil.
func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		retry:   httpx.DefaultRetryOptions(),
	}
}

// getJSON fetches path with query params and decodes the JSON object reply.
// Non-OK statuses after retries produce a failure-shaped result, not an
// error; transport errors after retries are returned as errors.
func (c *APIClient) getJSON(ctx context.Context, path, operation, ticker string, query url.Values) (map[string]any, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpx.FetchWithRetry(ctx, c.http, req, c.retry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpx.HTTPFailure(resp.StatusCode, operation, ticker, c.retry.MaxRetries+1).AsMap(), nil
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", operation, err)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	if _, ok := payload["success"]; !ok {
		payload["success"] = true
	}
	return payload, nil
}

func argString(args map[string]any, key string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
