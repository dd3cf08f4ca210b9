package timespec

import (
	"errors"
	"time"

	pkgerrors "github.com/joe/touch-ctime/pkg/errors"
	"github.com/joe/touch-ctime/pkg/filesystem"
)

// ErrExclusiveSources is returned when both a timestamp and a reference file are given.
var ErrExclusiveSources = errors.New("The -r & -t options are mutually exclusive") //nolint:staticcheck // user-facing message

// ErrEmptyReference is returned when -r is given an empty path.
var ErrEmptyReference = errors.New("-r requires a file name")

// Request names the configured time source. A nil Timestamp or Reference
// means the option was not given; a non-nil empty value was given empty.
// At most one of the two is non-nil.
type Request struct {
	Timestamp *string
	Format    string
	Reference *string
	Mode      Mode
}

// Statter is the part of filesystem.FileSystem the resolver needs.
type Statter interface {
	Stat(path string) (filesystem.Inode, error)
}

// Resolver produces the run's TargetTime once, before any file is touched.
type Resolver struct {
	FS  Statter
	Now func() time.Time
}

// NewResolver creates a Resolver. A nil now uses time.Now.
func NewResolver(fs Statter, now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}

	return &Resolver{FS: fs, Now: now}
}

// Resolve returns the target for req:
//   - no source: Unset
//   - Timestamp: parsed with Format, KindInvalidTimestamp on failure
//     (an empty value fails to parse)
//   - Reference: that file's atime, mtime or ctime per Mode,
//     KindFileNotAccessible on failure, KindConfiguration when empty
func (r *Resolver) Resolve(req Request) (TargetTime, error) {
	switch {
	case req.Timestamp != nil && req.Reference != nil:
		return Unset(), pkgerrors.New(pkgerrors.KindConfiguration, "", ErrExclusiveSources)

	case req.Timestamp != nil:
		t, err := Parse(*req.Timestamp, req.Format, r.Now())
		if err != nil {
			return Unset(), pkgerrors.New(pkgerrors.KindInvalidTimestamp, "", err)
		}

		return At(t), nil

	case req.Reference != nil:
		if *req.Reference == "" {
			return Unset(), pkgerrors.New(pkgerrors.KindConfiguration, "", ErrEmptyReference)
		}

		inode, err := r.FS.Stat(*req.Reference)
		if err != nil {
			return Unset(), pkgerrors.New(pkgerrors.KindFileNotAccessible, *req.Reference, err)
		}

		return FromReference(inode, req.Mode), nil

	default:
		return Unset(), nil
	}
}
