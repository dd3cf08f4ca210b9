// Package errors provides the error taxonomy of touch-ctime and actionable
// error handling with context-aware suggestions.
//
// Every failure of the ctime executor is a *TouchError carrying a Kind. The
// Kind decides the Scope of the failure: configuration errors stop the run
// before any file is touched, file-scoped errors are reported and the batch
// continues, process-scoped errors mean the system clock may be wrong and the
// whole run is aborted.
//
// The enricher turns any error into an ActionableError with suggestions:
//
//	enricher := errors.NewEnricher()
//	if err := executor.Touch(path, target, mode); err != nil {
//	    actionable := enricher.Enrich(err, path)
//	    fmt.Println(actionable.Error())
//	    fmt.Println(errors.FormatSuggestions(actionable))
//	}
//
// A *TouchError is categorized by its Kind and cause. Plain errors fall back
// to message matching, and the path is extracted from the message when not
// provided:
//
//	err := stdErrors.New("chmod /etc/shadow: operation not permitted")
//	enriched := enricher.Enrich(err, "") // Path will be extracted from error message
package errors

import "strings"

// Exported constants.
const (
	CategoryClock        ErrorCategory = "clock"
	CategoryClockRestore ErrorCategory = "clock_restore"
	CategoryPath         ErrorCategory = "path"
	CategoryPermission   ErrorCategory = "permission"
	CategorySignal       ErrorCategory = "signal"
	CategoryTimestamp    ErrorCategory = "timestamp"
	CategoryUnknown      ErrorCategory = "unknown"
)

// ActionableError represents an error with actionable suggestions for the user.
type ActionableError interface {
	error
	OriginalError() string
	Category() ErrorCategory
	Suggestions() []string
	AffectedPath() string
}

// NewActionableError creates a new ActionableError with the given details.
func NewActionableError(
	originalError string,
	category ErrorCategory,
	suggestions []string,
	affectedPath string,
) ActionableError {
	return &actionableError{
		originalError: originalError,
		category:      category,
		suggestions:   suggestions,
		affectedPath:  affectedPath,
	}
}

// ErrorCategory represents the type of error that occurred.
type ErrorCategory string

// FormatSuggestions formats the suggestions from an ActionableError as a bulleted list.
// Returns empty string if the error is nil or has no suggestions.
func FormatSuggestions(err error) string {
	if err == nil {
		return ""
	}

	actionable, ok := err.(ActionableError)
	if !ok {
		return ""
	}

	suggestions := actionable.Suggestions()
	if len(suggestions) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, suggestion := range suggestions {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("  • ")
		builder.WriteString(suggestion)
	}

	return builder.String()
}

// actionableError is the concrete implementation of ActionableError.
type actionableError struct {
	originalError string
	category      ErrorCategory
	suggestions   []string
	affectedPath  string
}

// AffectedPath returns the file path affected by this error.
func (e *actionableError) AffectedPath() string {
	return e.affectedPath
}

// Category returns the error category.
func (e *actionableError) Category() ErrorCategory {
	return e.category
}

// Error implements the error interface.
func (e *actionableError) Error() string {
	return e.originalError
}

// OriginalError returns the original error message.
func (e *actionableError) OriginalError() string {
	return e.originalError
}

// Suggestions returns the list of actionable suggestions.
func (e *actionableError) Suggestions() []string {
	return e.suggestions
}
