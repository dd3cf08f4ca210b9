// Package ctime forges a file's inode change time.
//
// The kernel stamps ctime with the wall clock whenever inode metadata
// changes. Touch moves the system clock to the target, replays the file's
// own permission bits so the kernel stamps the inode, and puts the clock
// back, all while signal delivery is deferred.
package ctime

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/joe/touch-ctime/internal/sigguard"
	"github.com/joe/touch-ctime/internal/sysclock"
	"github.com/joe/touch-ctime/internal/timespec"
	pkgerrors "github.com/joe/touch-ctime/pkg/errors"
	"github.com/joe/touch-ctime/pkg/filesystem"
)

// driftTolerance is how far a forged ctime may land from its target before
// a warning is logged.
const driftTolerance = time.Second

// Inodes is the part of filesystem.FileSystem the executor needs.
type Inodes interface {
	Stat(path string) (filesystem.Inode, error)
	Chmod(path string, perm uint32) error
}

// Result describes one completed Touch.
type Result struct {
	Path string
	// Target is the instant the clock was moved to; unset for a plain touch
	Target timespec.TargetTime
	// Ctime is the change time read back after the signal guard was released
	Ctime time.Time
	// Forged is false when no target was available and the inode was only touched
	Forged bool
}

// Executor runs the critical section for one file at a time.
type Executor struct {
	fs        Inodes
	clock     sysclock.Clock
	signals   sigguard.Blocker
	logger    *slog.Logger
	stopwatch func() func() time.Duration
}

// New creates an Executor. A nil logger discards log output.
func New(fs Inodes, clock sysclock.Clock, signals sigguard.Blocker, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Executor{
		fs:        fs,
		clock:     clock,
		signals:   signals,
		logger:    logger,
		stopwatch: monotonic,
	}
}

// monotonic starts a stopwatch on the monotonic clock, which settimeofday
// does not move.
func monotonic() func() time.Duration {
	start := time.Now()

	return func() time.Duration { return time.Since(start) }
}

// Preview returns the time Touch would stamp onto path without touching
// the clock, the signal mask or the file.
func (e *Executor) Preview(path string, target timespec.TargetTime, mode timespec.Mode) (time.Time, error) {
	inode, err := e.fs.Stat(path)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.KindFileNotAccessible, path, err)
	}

	target = target.Derive(inode, mode)
	if target.IsSet() {
		return target.Time(), nil
	}

	now, err := e.clock.Now()
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.KindClockReadFailure, path, err)
	}

	return now, nil
}

// Touch forges the ctime of path to target, or to the file's own atime or
// mtime when target is unset and mode selects one. With neither, the inode
// is touched at the real current time.
//
// The system clock is restored before the signal guard is released on
// every path that moved it. A returned error whose scope is
// pkgerrors.ScopeProcess means the run must stop.
func (e *Executor) Touch(path string, target timespec.TargetTime, mode timespec.Mode) (Result, error) {
	result := Result{Path: path}

	inode, err := e.fs.Stat(path)
	if err != nil {
		return result, pkgerrors.New(pkgerrors.KindFileNotAccessible, path, err)
	}

	target = target.Derive(inode, mode)
	result.Target = target
	result.Forged = target.IsSet()

	saved, err := e.clock.Now()
	if err != nil {
		return result, pkgerrors.New(pkgerrors.KindClockReadFailure, path, err)
	}

	deferred, sectionErr := e.critical(path, inode.Perm, target, saved)
	if len(deferred) > 0 {
		e.logger.Info("signals delivered after clock restore", "path", path, "signals", deferred)
	}

	after, statErr := e.fs.Stat(path)
	if statErr == nil {
		result.Ctime = after.Ctime
		e.checkDrift(result)
	}

	if !result.Forged {
		e.logger.Debug("no target time, inode touched at current time", "path", path)
	}

	return result, sectionErr
}

// critical runs steps that must not be interrupted. It does not log, and
// returns the signals that arrived while they ran.
//
// The clock is restored to saved plus the monotonic time spent in the
// section, not to saved itself, so the wall clock does not fall behind.
func (e *Executor) critical(path string, perm uint32, target timespec.TargetTime, saved time.Time) (deferred []os.Signal, err error) {
	guard, blockErr := e.signals.Block()
	if blockErr != nil {
		return nil, pkgerrors.New(pkgerrors.KindSignalMaskFailure, path, blockErr)
	}

	var failures failureList

	defer func() {
		if releaseErr := guard.Release(); releaseErr != nil {
			failures.add(pkgerrors.New(pkgerrors.KindSignalMaskFailure, path, releaseErr))
		}

		deferred = sigguard.Deferred(guard)
		err = failures.err()
	}()

	elapsed := e.stopwatch()

	moved := false
	if target.IsSet() {
		if setErr := e.clock.Set(target.Time()); setErr != nil {
			failures.add(pkgerrors.New(pkgerrors.KindClockWriteFailure, path, setErr))
			return
		}

		moved = true
	}

	if chmodErr := e.fs.Chmod(path, perm); chmodErr != nil {
		failures.add(pkgerrors.New(pkgerrors.KindInodeTouchFailure, path, chmodErr))
	}

	if moved {
		if restoreErr := e.clock.Set(saved.Add(elapsed())); restoreErr != nil {
			failures.add(pkgerrors.New(pkgerrors.KindClockRestoreFailure, path, restoreErr))
		}
	}

	return
}

func (e *Executor) checkDrift(result Result) {
	if !result.Forged {
		return
	}

	drift := result.Ctime.Sub(result.Target.Time())
	if drift < 0 {
		drift = -drift
	}

	if drift > driftTolerance {
		e.logger.Warn("ctime differs from target",
			"path", result.Path,
			"target", result.Target.String(),
			"ctime", timespec.Format(result.Ctime),
			"drift", drift)
	}
}

// failureList keeps failures in the order they were recorded.
type failureList struct {
	errs []error
}

func (f *failureList) add(err error) {
	f.errs = append(f.errs, err)
}

// err returns nil, the single failure, or all failures joined with the
// first process-scoped one leading.
func (f *failureList) err() error {
	switch len(f.errs) {
	case 0:
		return nil
	case 1:
		return f.errs[0]
	}

	lead := 0
	if pkgerrors.ScopeOf(f.errs[0]) != pkgerrors.ScopeProcess {
		for i, err := range f.errs {
			if pkgerrors.ScopeOf(err) == pkgerrors.ScopeProcess {
				lead = i
				break
			}
		}
	}

	ordered := make([]error, 0, len(f.errs))
	ordered = append(ordered, f.errs[lead])
	ordered = append(ordered, f.errs[:lead]...)
	ordered = append(ordered, f.errs[lead+1:]...)

	return errors.Join(ordered...)
}
