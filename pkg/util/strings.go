package util

import "strings"

// SplitCommaSeparated splits a comma-separated string and trims whitespace from each element.
// Empty input returns nil.
func SplitCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// CollapseSpaces trims s and folds internal whitespace runs to single spaces.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// LooseEqual compares two strings ignoring case and whitespace runs.
// Device-reported names often differ from the design only in casing or
// padding.
func LooseEqual(a, b string) bool {
	return strings.EqualFold(CollapseSpaces(a), CollapseSpaces(b))
}

// StripDomain returns the host portion of a possibly fully-qualified
// hostname: "sw1.dc1.example.com" -> "sw1".
func StripDomain(hostname string) string {
	if i := strings.IndexByte(hostname, '.'); i >= 0 {
		return hostname[:i]
	}
	return hostname
}
