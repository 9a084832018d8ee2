package util

import "strings"

// StripCodeFences removes a single fenced block wrapped around the whole reply
// (```, ```markdown, ```md, ```text). Inner fences are left alone.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		lang := strings.ToLower(strings.TrimSpace(body[:nl]))
		switch lang {
		case "", "markdown", "md", "text", "txt":
			body = body[nl+1:]
		default:
			return s
		}
	}
	return strings.TrimSpace(body)
}

// Truncate cuts s to at most n runes and appends an ellipsis when it had to cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
