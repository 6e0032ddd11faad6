// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
// Example:
//
//	DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  "})
//	// Returns: []string{"foo", "bar"}
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// DedupeAndTrimUpper is like DedupeAndTrim but also upper-cases each element.
// Postal codes and document numbers compare case-insensitively in upper case.
//
// Example:
//
//	DedupeAndTrimUpper([]string{" 9713bh ", "9713BH", "9711AA"})
//	// Returns: []string{"9713BH", "9711AA"}
func DedupeAndTrimUpper(values []string) []string {
	return dedupe(values, func(v string) string {
		return strings.ToUpper(strings.TrimSpace(v))
	})
}

func dedupe(values []string, normalize func(string) string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		n := normalize(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			result = append(result, n)
		}
	}

	return result
}
