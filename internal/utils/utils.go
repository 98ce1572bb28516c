package utils

import "strings"

// TruncateRunes returns at most limit runes of s. Nothing is appended.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	truncated := TruncateRunes(s, limit)
	if truncated == s {
		return s
	}
	return truncated + "..."
}
