package prompts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/marketbrief/marketbrief/internal/research"
)

func TestFormatTaskResultsEmpty(t *testing.T) {
	if got := FormatTaskResults(nil, 0); got != "(no results yet)" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatTaskResultsPrioritizedFields(t *testing.T) {
	results := map[string]research.TaskResult{
		"t1": {
			TaskID: "t1",
			Output: "Executed 1 tool(s): company_fundamentals",
			ToolResults: []research.ToolOutcome{{
				Tool: "company_fundamentals",
				Result: map[string]any{
					"success":        true,
					"ticker":         "AAPL",
					"pe_ratio":       29.4,
					"revenue":        394_328_000_000.0,
					"internal_debug": "should not appear",
				},
			}},
		},
	}
	got := FormatTaskResults(results, 0)

	if !strings.Contains(got, "[t1]: Executed 1 tool(s): company_fundamentals") {
		t.Fatalf("missing task line:\n%s", got)
	}
	for _, want := range []string{"ticker=AAPL", "pe_ratio=29.40", "revenue=$394.33B"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "internal_debug") {
		t.Fatalf("non-prioritized key leaked:\n%s", got)
	}
}

func TestFormatTaskResultsFallbackKeys(t *testing.T) {
	results := map[string]research.TaskResult{
		"t1": {
			TaskID: "t1",
			Output: "done",
			ToolResults: []research.ToolOutcome{{
				Tool:   "misc",
				Result: map[string]any{"alpha": 1.0, "beta": 2.0, "gamma": 3.0, "delta": 4.0},
			}},
		},
	}
	got := FormatTaskResults(results, 0)
	// No allowlisted field matches; the first few keys stand in.
	if !strings.Contains(got, "alpha=1") {
		t.Fatalf("fallback keys missing:\n%s", got)
	}
	if strings.Contains(got, "gamma") {
		t.Fatalf("fallback should cap key count:\n%s", got)
	}
}

func TestFormatTaskResultsFailurePayload(t *testing.T) {
	results := map[string]research.TaskResult{
		"t1": {
			TaskID: "t1",
			Output: "Executed 1 tool(s): stock_quote",
			ToolResults: []research.ToolOutcome{{
				Tool:   "stock_quote",
				Result: map[string]any{"success": false, "error": "stock_quote failed: unexpected status 503"},
			}},
		},
	}
	got := FormatTaskResults(results, 0)
	if !strings.Contains(got, "error: stock_quote failed") {
		t.Fatalf("failure payload not summarized:\n%s", got)
	}
}

func TestFormatTaskResultsSortedAndCapped(t *testing.T) {
	results := make(map[string]research.TaskResult)
	long := strings.Repeat("x", 500)
	for i := 0; i < 40; i++ {
		id := fmt.Sprintf("task-%02d", i)
		results[id] = research.TaskResult{TaskID: id, Output: long}
	}
	got := FormatTaskResults(results, 0)

	if len(got) > totalSummaryCap+100 {
		t.Fatalf("output length %d exceeds cap", len(got))
	}
	if !strings.Contains(got, "(further results omitted)") {
		t.Fatal("cap marker missing")
	}
	if !strings.HasPrefix(got, "[task-00]") {
		t.Fatalf("output not in sorted id order:\n%.80s", got)
	}
}

func TestAbbrevValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{2_500_000_000_000.0, "$2.50T"},
		{1_230_000_000.0, "$1.23B"},
		{4_500_000.0, "$4.5M"},
		{12_300.0, "$12.3K"},
		{29.4, "29.40"},
		{42.0, "42"},
		{true, "true"},
		{nil, "null"},
		{strings.Repeat("a", 200), strings.Repeat("a", 120) + "..."},
		{[]any{1.0, 2.0}, "[2 items, first: 1]"},
		{map[string]any{"a": 1}, "{1 fields}"},
	}
	for _, tc := range cases {
		if got := abbrevValue(tc.in); got != tc.want {
			t.Errorf("abbrevValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
