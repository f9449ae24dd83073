package llm

import "strings"

// ExtractJSON pulls a JSON payload out of free-form model text. It prefers a
// fenced code block, then the first balanced {...} or [...] span, and finally
// returns the text unchanged so a later parse fails explicitly instead of
// silently.
func ExtractJSON(text string) string {
	if fenced := extractFenced(text); fenced != "" {
		return fenced
	}
	if span := extractBalanced(text, '{', '}'); span != "" {
		return span
	}
	if span := extractBalanced(text, '[', ']'); span != "" {
		return span
	}
	return text
}

func extractFenced(text string) string {
	start := strings.Index(text, "```")
	if start == -1 {
		return ""
	}
	rest := text[start+3:]
	// Skip a language tag like "json" on the opening fence line.
	if nl := strings.IndexByte(rest, '\n'); nl != -1 {
		firstLine := strings.TrimSpace(rest[:nl])
		if firstLine == "" || !strings.ContainsAny(firstLine, "{[") {
			rest = rest[nl+1:]
		}
	}
	end := strings.Index(rest, "```")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

func extractBalanced(text string, open, closing byte) string {
	start := strings.IndexByte(text, open)
	if start == -1 {
		return ""
	}
	depth := 0
	inString := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
