package main

import (
	"strings"

	"github.com/gobwas/glob"
)

type ExternalMatcher struct {
	globPattern glob.Glob
	inputString string
	// Plain package names without wildcards also match every subpath of the
	// package, e.g. "lodash" covers "lodash/fp".
	matchesSubpaths bool
}

func CreateExternalMatchers(patterns []string) ([]ExternalMatcher, error) {
	externalMatchers := make([]ExternalMatcher, 0, len(patterns))

	for _, pattern := range patterns {
		matchesSubpaths := !strings.Contains(pattern, "*") && !strings.Contains(pattern, "/")

		globPattern, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}

		externalMatchers = append(externalMatchers, ExternalMatcher{
			globPattern:     globPattern,
			inputString:     pattern,
			matchesSubpaths: matchesSubpaths,
		})
	}

	return externalMatchers, nil
}

func MatchesAnyExternal(specifier string, matchers []ExternalMatcher) bool {
	for _, matcher := range matchers {
		if matcher.globPattern.Match(specifier) {
			return true
		}
		if matcher.matchesSubpaths && strings.HasPrefix(specifier, matcher.inputString+"/") {
			return true
		}
	}
	return false
}
