package errors

import "strings"

// PatternMatcher matches error messages to categories using string patterns.
type PatternMatcher interface {
	Match(errorMsg string) ErrorCategory
}

// NewPatternMatcher creates a new PatternMatcher with predefined patterns.
func NewPatternMatcher() PatternMatcher {
	return &patternMatcher{
		order: []ErrorCategory{
			CategoryClockRestore,
			CategoryPermission,
			CategoryPath,
			CategorySignal,
			CategoryTimestamp,
			CategoryClock,
		},
		patterns: map[ErrorCategory][]string{
			CategoryClockRestore: {
				"clock restore failed",
			},
			CategoryPermission: {
				"permission denied",
				"operation not permitted",
				"access denied",
				"read-only file system",
			},
			CategoryPath: {
				"no such file or directory",
				"not a directory",
				"file not found",
				"file name too long",
			},
			CategorySignal: {
				"signal mask",
				"sigprocmask",
			},
			CategoryTimestamp: {
				"invalid timestamp",
				"mutually exclusive",
				"cannot parse",
			},
			CategoryClock: {
				"settimeofday",
				"gettimeofday",
				"invalid argument",
			},
		},
	}
}

// patternMatcher is the concrete implementation of PatternMatcher.
type patternMatcher struct {
	order    []ErrorCategory
	patterns map[ErrorCategory][]string
}

// Match returns the error category based on pattern matching.
// Categories are tried in a fixed order so the result is deterministic.
func (m *patternMatcher) Match(errorMsg string) ErrorCategory {
	lowerMsg := strings.ToLower(errorMsg)

	for _, category := range m.order {
		for _, pattern := range m.patterns[category] {
			if strings.Contains(lowerMsg, pattern) {
				return category
			}
		}
	}

	return CategoryUnknown
}
