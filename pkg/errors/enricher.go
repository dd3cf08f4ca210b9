package errors

import (
	"errors"
	"regexp"
	"strings"
)

// Enricher enriches standard errors with actionable suggestions.
type Enricher interface {
	Enrich(err error, affectedPath string) error
}

// NewEnricher creates a new Enricher with default pattern matcher and suggestion generator.
func NewEnricher() Enricher {
	return &enricher{
		matcher:   NewPatternMatcher(),
		generator: NewSuggestionGenerator(),
	}
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Compiled regexes shared across all enricher instances
	pathExtractionPatterns = []*regexp.Regexp{
		// "op /path: cause" as produced by os.PathError
		regexp.MustCompile(`\b\w+\s+([./][^\s:]+):`),
		// "kind: /path: cause" as produced by TouchError
		regexp.MustCompile(`:\s+([./][^\s:]+):`),
	}
)

// enricher is the concrete implementation of Enricher.
type enricher struct {
	matcher   PatternMatcher
	generator SuggestionGenerator
}

// Enrich takes an error and enriches it with category and actionable suggestions.
// If the error is already an ActionableError, it is returned unchanged.
// A TouchError is categorized by its kind first and by its message second.
// If affectedPath is empty, the TouchError path or a path found in the message is used.
func (e *enricher) Enrich(err error, affectedPath string) error {
	var actionableErr ActionableError
	if errors.As(err, &actionableErr) {
		return actionableErr
	}

	errMsg := err.Error()

	var touchErr *TouchError
	if affectedPath == "" && errors.As(err, &touchErr) {
		affectedPath = touchErr.Path
	}

	if affectedPath == "" {
		affectedPath = extractPath(errMsg)
	}

	category := e.categorize(err, errMsg)

	return NewActionableError(
		errMsg,
		category,
		e.generator.Generate(category, affectedPath),
		affectedPath,
	)
}

func (e *enricher) categorize(err error, errMsg string) ErrorCategory {
	matched := e.matcher.Match(errMsg)

	switch KindOf(err) {
	case KindClockRestoreFailure:
		return CategoryClockRestore
	case KindClockReadFailure, KindClockWriteFailure:
		if matched == CategoryPermission {
			return CategoryPermission
		}

		return CategoryClock
	case KindSignalMaskFailure:
		return CategorySignal
	case KindConfiguration, KindInvalidTimestamp:
		return CategoryTimestamp
	case KindFileNotAccessible, KindInodeTouchFailure:
		if matched == CategoryUnknown {
			return CategoryPath
		}

		return matched
	case KindUnknown:
		return matched
	default:
		return matched
	}
}

// extractPath attempts to extract a file path from common Go error message formats.
// Returns empty string if no path is found.
//
// Recognized formats:
//   - "stat /path/to/file: no such file or directory"
//   - "chmod /etc/shadow: operation not permitted"
//   - "file not accessible: ./relative/file: permission denied"
func extractPath(errorMsg string) string {
	for _, pattern := range pathExtractionPatterns {
		if matches := pattern.FindStringSubmatch(errorMsg); len(matches) > 1 {
			path := strings.TrimSpace(matches[1])
			if path != "" {
				return path
			}
		}
	}

	return ""
}
