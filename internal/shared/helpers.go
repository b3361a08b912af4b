// Package shared provides common utility functions used across multiple
// packages in the apibaseline codebase.
package shared

import "strings"

// NormalizePipName lowercases a Python package name and replaces
// underscores and dots with hyphens, following PEP 503 normalization.
func NormalizePipName(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	replacer := strings.NewReplacer("_", "-", ".", "-")
	return replacer.Replace(lower)
}

// MatchPattern reports whether value matches pattern, where pattern is an
// exact name, "*", or a prefix ending in "*".
func MatchPattern(pattern string, value string) bool {
	switch {
	case pattern == "*":
		return true
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(value, strings.TrimSuffix(pattern, "*"))
	default:
		return pattern == value
	}
}
