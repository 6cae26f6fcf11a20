package listening

import "strings"

const dateOnly = "2006-01-02"

// datePart truncates an ISO timestamp to its date component. The posts
// endpoint rejects full timestamps.
func datePart(s string) string {
	if i := strings.Index(s, "T"); i >= 0 {
		return s[:i]
	}
	return s
}

// startTimestamp expands a bare date to the first second of that day. The
// metrics endpoint expects full timestamps. An empty string passes through
// unchanged; callers validate the range before expanding.
func startTimestamp(s string) string {
	if s == "" || strings.Contains(s, "T") {
		return s
	}
	return s + "T00:00:00"
}

// endTimestamp expands a bare date to the last second of that day.
func endTimestamp(s string) string {
	if s == "" || strings.Contains(s, "T") {
		return s
	}
	return s + "T23:59:59"
}
