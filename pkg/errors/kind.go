package errors

import (
	"errors"
	"fmt"
)

// Kind identifies which step of a run failed.
type Kind int

// Failure kinds.
const (
	KindUnknown Kind = iota
	KindConfiguration
	KindInvalidTimestamp
	KindFileNotAccessible
	KindInodeTouchFailure
	KindClockReadFailure
	KindSignalMaskFailure
	KindClockWriteFailure
	KindClockRestoreFailure
)

// Scope tells the driver how far a failure reaches.
type Scope int

// Failure scopes, ordered by severity.
const (
	ScopeNone Scope = iota
	ScopeFile
	ScopeConfiguration
	ScopeProcess
)

// String returns the step name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindInvalidTimestamp:
		return "invalid timestamp"
	case KindFileNotAccessible:
		return "file not accessible"
	case KindInodeTouchFailure:
		return "inode touch failed"
	case KindClockReadFailure:
		return "clock read failed"
	case KindSignalMaskFailure:
		return "signal mask failed"
	case KindClockWriteFailure:
		return "clock write failed"
	case KindClockRestoreFailure:
		return "clock restore failed"
	case KindUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// Scope returns the reach of a failure of this kind.
func (k Kind) Scope() Scope {
	switch k {
	case KindConfiguration, KindInvalidTimestamp:
		return ScopeConfiguration
	case KindFileNotAccessible, KindInodeTouchFailure:
		return ScopeFile
	case KindClockReadFailure, KindSignalMaskFailure, KindClockWriteFailure, KindClockRestoreFailure:
		return ScopeProcess
	case KindUnknown:
		return ScopeFile
	default:
		return ScopeFile
	}
}

// String returns the scope name.
func (s Scope) String() string {
	switch s {
	case ScopeNone:
		return "none"
	case ScopeFile:
		return "file"
	case ScopeConfiguration:
		return "configuration"
	case ScopeProcess:
		return "process"
	default:
		return "unknown"
	}
}

// TouchError is a failure translated into the taxonomy at the point of detection.
type TouchError struct {
	Kind Kind
	Path string
	Err  error
}

// New wraps err as a TouchError of the given kind. Path may be empty for
// failures that are not tied to a file.
func New(kind Kind, path string, err error) *TouchError {
	return &TouchError{Kind: kind, Path: path, Err: err}
}

// Error implements the error interface.
func (e *TouchError) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

// Unwrap returns the underlying cause.
func (e *TouchError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the most severe TouchError in err's tree.
func KindOf(err error) Kind {
	worst := KindUnknown
	walk(err, func(te *TouchError) {
		if worst == KindUnknown || te.Kind.Scope() > worst.Scope() {
			worst = te.Kind
		}
	})

	return worst
}

// ScopeOf returns the most severe scope found in err's tree. Errors that carry
// no TouchError are file-scoped; nil is ScopeNone.
func ScopeOf(err error) Scope {
	if err == nil {
		return ScopeNone
	}

	scope := ScopeFile
	walk(err, func(te *TouchError) {
		if s := te.Kind.Scope(); s > scope {
			scope = s
		}
	})

	return scope
}

// HasKind reports whether any TouchError in err's tree has the given kind.
func HasKind(err error, kind Kind) bool {
	found := false
	walk(err, func(te *TouchError) {
		if te.Kind == kind {
			found = true
		}
	})

	return found
}

// walk visits every TouchError reachable from err, including branches of
// errors.Join.
func walk(err error, visit func(*TouchError)) {
	if err == nil {
		return
	}

	var te *TouchError
	if errors.As(err, &te) {
		visit(te)
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			walk(e, visit)
		}
	}
}
