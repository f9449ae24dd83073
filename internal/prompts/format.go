package prompts

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/marketbrief/marketbrief/internal/research"
)

const (
	// DefaultMaxCharsPerResult bounds the summarized view of one task.
	DefaultMaxCharsPerResult = 800

	// totalSummaryCap bounds the combined formatted output. Raw tool
	// payloads are far too large to replay into the model every turn, so
	// compression here is a correctness requirement, not a nicety.
	totalSummaryCap = 6000

	maxStringValueLen = 120
	fallbackKeyCount  = 3
)

// keyPriority orders the financially meaningful fields pulled out of tool
// payloads. A payload key matches an entry when the entry appears as a
// substring of the lowercased key.
var keyPriority = []string{
	"ticker",
	"symbol",
	"price",
	"pe_ratio",
	"pe",
	"ratio",
	"margin",
	"eps",
	"revenue",
	"income",
	"name",
	"sector",
	"industry",
	"market_cap",
	"holder",
	"transaction",
	"rating",
	"target",
}

// skippedKeys never contribute to summaries.
var skippedKeys = map[string]bool{
	"success": true,
	"details": true,
}

// FormatTaskResults renders every accumulated task result as "[taskId]:
// output" lines plus a summarized view of its tool payloads, in sorted
// task-id order. Each result's summary is capped at maxChars and the whole
// output is hard-capped.
func FormatTaskResults(results map[string]research.TaskResult, maxChars int) string {
	if len(results) == 0 {
		return "(no results yet)"
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxCharsPerResult
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	for _, id := range ids {
		r := results[id]
		entry := fmt.Sprintf("[%s]: %s\n", id, r.Output)
		for _, tr := range r.ToolResults {
			summary := summarizePayload(tr.Result)
			if summary == "" {
				continue
			}
			if len(summary) > maxChars {
				summary = summary[:maxChars] + "..."
			}
			entry += fmt.Sprintf("  %s -> %s\n", tr.Tool, summary)
		}
		if sb.Len()+len(entry) > totalSummaryCap {
			sb.WriteString("(further results omitted)\n")
			break
		}
		sb.WriteString(entry)
	}
	return sb.String()
}

// summarizePayload extracts prioritized fields from a tool payload, falling
// back to the first few keys when nothing on the allowlist matches.
func summarizePayload(payload map[string]any) string {
	if len(payload) == 0 {
		return ""
	}
	if ok, isBool := payload["success"].(bool); isBool && !ok {
		if msg, isStr := payload["error"].(string); isStr {
			return "error: " + truncate(msg, maxStringValueLen)
		}
		return "error"
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		if !skippedKeys[k] && k != "error" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	picked := prioritizedKeys(keys)
	if len(picked) == 0 {
		if len(keys) > fallbackKeyCount {
			keys = keys[:fallbackKeyCount]
		}
		picked = keys
	}

	parts := make([]string, 0, len(picked))
	for _, k := range picked {
		parts = append(parts, fmt.Sprintf("%s=%s", k, abbrevValue(payload[k])))
	}
	return strings.Join(parts, ", ")
}

// prioritizedKeys keeps the keys matching the allowlist, in priority order.
func prioritizedKeys(keys []string) []string {
	var picked []string
	seen := make(map[string]bool)
	for _, want := range keyPriority {
		for _, k := range keys {
			if seen[k] {
				continue
			}
			if strings.Contains(strings.ToLower(k), want) {
				picked = append(picked, k)
				seen[k] = true
			}
		}
	}
	return picked
}

// abbrevValue renders one payload value compactly. Large magnitudes become
// $1.23B style figures; long strings are truncated; nested structures
// collapse to a size hint.
func abbrevValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return fmt.Sprintf("%t", val)
	case string:
		return truncate(val, maxStringValueLen)
	case float64:
		return abbrevNumber(val)
	case int:
		return abbrevNumber(float64(val))
	case int64:
		return abbrevNumber(float64(val))
	case map[string]any:
		return fmt.Sprintf("{%d fields}", len(val))
	case []any:
		if len(val) == 0 {
			return "[]"
		}
		return fmt.Sprintf("[%d items, first: %s]", len(val), abbrevValue(val[0]))
	default:
		return truncate(fmt.Sprintf("%v", val), maxStringValueLen)
	}
}

func abbrevNumber(f float64) string {
	abs := math.Abs(f)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("$%.2fT", f/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", f/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.1fM", f/1e6)
	case abs >= 1e4:
		return fmt.Sprintf("$%.1fK", f/1e3)
	case f == math.Trunc(f):
		return fmt.Sprintf("%d", int64(f))
	default:
		return fmt.Sprintf("%.2f", f)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
