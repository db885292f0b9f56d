package resolver

import "strings"

// hasInvalidPathSegments reports whether any "/"- or "\"-separated segment
// of the string is empty, ".", "..", or "node_modules" (case-insensitive).
// Export targets and captured pattern matches must both pass this check.
func hasInvalidPathSegments(segments string) bool {
	if segments == "" {
		return true
	}
	for _, segment := range strings.FieldsFunc(segments, func(c rune) bool {
		return c == '/' || c == '\\'
	}) {
		switch strings.ToLower(segment) {
		case ".", "..", "node_modules":
			return true
		}
	}
	// FieldsFunc drops empty segments, so probe for them directly.
	if strings.HasPrefix(segments, "/") || strings.HasSuffix(segments, "/") ||
		strings.HasPrefix(segments, "\\") || strings.HasSuffix(segments, "\\") {
		return true
	}
	return strings.Contains(segments, "//") || strings.Contains(segments, "\\\\") ||
		strings.Contains(segments, "/\\") || strings.Contains(segments, "\\/")
}

// isArrayIndex reports whether a key is an array-index-like string ("0",
// "101", ...). Such keys are forbidden in exports and imports objects.
func isArrayIndex(key string) bool {
	if key == "" {
		return false
	}
	if key == "0" {
		return true
	}
	if key[0] == '0' {
		return false
	}
	var n uint64
	for _, c := range key {
		if c < '0' || c > '9' {
			return false
		}
		n = n*10 + uint64(c-'0')
		if n >= 1<<32-1 {
			return false
		}
	}
	return true
}

// isValidPatternKey reports whether an exports/imports key may participate
// in pattern matching: it must end in "/" (legacy trailing-slash form) or
// contain exactly one "*".
func isValidPatternKey(key string) bool {
	if strings.HasSuffix(key, "/") {
		return true
	}
	return strings.Count(key, "*") == 1
}

// isRelativeSpecifier reports whether a specifier is resolved against its
// parent URL rather than as a package name.
func isRelativeSpecifier(specifier string) bool {
	return strings.HasPrefix(specifier, "/") ||
		strings.HasPrefix(specifier, "./") ||
		strings.HasPrefix(specifier, "../")
}
