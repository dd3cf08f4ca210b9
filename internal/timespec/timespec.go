// Package timespec resolves the time a file's ctime should be forged to.
package timespec

import (
	"time"

	"github.com/joe/touch-ctime/pkg/filesystem"
)

// Mode selects where an unset target time comes from.
type Mode int

const (
	// ModeDefault uses the explicit or reference-derived time, or none
	ModeDefault Mode = iota
	// ModeAtime uses the file's own access time
	ModeAtime
	// ModeMtime uses the file's own modification time
	ModeMtime
)

// String returns the representation used in logs.
func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeAtime:
		return "atime"
	case ModeMtime:
		return "mtime"
	default:
		return "unknown"
	}
}

// TargetTime is the instant a ctime is forged to. The zero value is unset.
type TargetTime struct {
	at  time.Time
	set bool
}

// Unset returns a TargetTime meaning "no explicit target".
func Unset() TargetTime {
	return TargetTime{}
}

// At returns a set TargetTime, truncated to the microsecond resolution of
// settimeofday.
func At(t time.Time) TargetTime {
	return TargetTime{at: t.Truncate(time.Microsecond), set: true}
}

// IsSet reports whether the target is an explicit instant.
func (t TargetTime) IsSet() bool {
	return t.set
}

// Time returns the instant, or the zero time when unset.
func (t TargetTime) Time() time.Time {
	return t.at
}

// String formats the target for logs and reports.
func (t TargetTime) String() string {
	if !t.set {
		return "unset"
	}

	return Format(t.at)
}

// Derive fills an unset target from the inode according to mode. A set
// target, or ModeDefault, is returned unchanged.
func (t TargetTime) Derive(inode filesystem.Inode, mode Mode) TargetTime {
	if t.set {
		return t
	}

	switch mode {
	case ModeAtime:
		return At(inode.Atime)
	case ModeMtime:
		return At(inode.Mtime)
	case ModeDefault:
		return t
	default:
		return t
	}
}

// FromReference picks the reference file time for mode: atime, mtime, or
// ctime by default.
func FromReference(inode filesystem.Inode, mode Mode) TargetTime {
	switch mode {
	case ModeAtime:
		return At(inode.Atime)
	case ModeMtime:
		return At(inode.Mtime)
	case ModeDefault:
		return At(inode.Ctime)
	default:
		return At(inode.Ctime)
	}
}
