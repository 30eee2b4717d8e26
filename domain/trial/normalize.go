package trial

import "strings"

// NormalizeKey lowercases a condition or location string and collapses runs
// of whitespace to single spaces. Graph nodes are keyed by this value, and
// match queries compare against it, so both sides must use this exact
// function: "Diabetes Type 1" and "diabetes  type 1" map to the same key.
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormalizeKeys maps NormalizeKey over values, dropping entries that
// normalize to the empty string.
func NormalizeKeys(values []string) []string {
	keys := make([]string, 0, len(values))
	for _, v := range values {
		if key := NormalizeKey(v); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
