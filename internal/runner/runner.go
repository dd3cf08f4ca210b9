// Package runner drives one touch-ctime invocation: it resolves the target
// time once, expands the file arguments and runs the executor per file.
package runner

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/joe/touch-ctime/internal/config"
	"github.com/joe/touch-ctime/internal/ctime"
	"github.com/joe/touch-ctime/internal/timespec"
	"github.com/joe/touch-ctime/internal/tui"
	pkgerrors "github.com/joe/touch-ctime/pkg/errors"
	"github.com/joe/touch-ctime/pkg/filesystem"
)

// Exit statuses.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitClockRestore  = 3
)

const clockRestoreBanner = "SYSTEM CLOCK NOT RESTORED\n" +
	"The wall clock of this machine is now wrong.\n" +
	"Correct it (hwclock --hctosys, chronyc makestep) before anything else."

// Resolver produces the run's target time.
type Resolver interface {
	Resolve(req timespec.Request) (timespec.TargetTime, error)
}

// Executor forges or previews one file.
type Executor interface {
	Touch(path string, target timespec.TargetTime, mode timespec.Mode) (ctime.Result, error)
	Preview(path string, target timespec.TargetTime, mode timespec.Mode) (time.Time, error)
}

// Targets expands the file arguments.
type Targets interface {
	Scan(roots []string, opts filesystem.ScanOptions) filesystem.TargetScanner
}

// ConfirmFunc asks whether path should get the target time.
type ConfirmFunc func(path, target string) (tui.Decision, error)

// Runner holds everything one run needs. Config, Resolver, Executor and
// Targets are required.
type Runner struct {
	Config   *config.Config
	Resolver Resolver
	Executor Executor
	Targets  Targets
	Confirm  ConfirmFunc
	Enricher pkgerrors.Enricher
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger

	summary Summary
}

// Summary returns the counters of the last Run.
func (r *Runner) Summary() Summary {
	return r.summary
}

// Run processes every file and returns the exit status.
func (r *Runner) Run() int {
	r.defaults()
	r.summary = Summary{}
	defer r.finish()

	cfg := r.Config
	mode := cfg.Mode()

	target, err := r.Resolver.Resolve(cfg.Request())
	if err != nil {
		r.report(err, cfg.ReferencePath())

		if pkgerrors.ScopeOf(err) == pkgerrors.ScopeConfiguration {
			return ExitConfiguration
		}

		return ExitFailure
	}

	r.Logger.Debug("resolved target", "target", target.String(), "mode", mode.String(), "dry_run", cfg.DryRun)

	scanner := r.Targets.Scan(cfg.Files, cfg.ScanOptions())
	failed := false
	ask := cfg.Interactive && !cfg.DryRun && r.Confirm != nil

	for {
		entry, ok := scanner.Next()
		if !ok {
			break
		}

		if entry.Err != nil {
			r.report(pkgerrors.New(pkgerrors.KindFileNotAccessible, entry.Path, entry.Err), entry.Path)
			r.summary.Failed++
			failed = true

			continue
		}

		if cfg.DryRun {
			r.preview(entry.Path, target, mode)
			continue
		}

		if ask {
			decision, err := r.ask(entry.Path, target, mode)
			if err != nil {
				r.report(err, entry.Path)
				r.summary.Failed++

				if pkgerrors.KindOf(err) == pkgerrors.KindFileNotAccessible {
					failed = true
					continue
				}

				return ExitFailure
			}

			switch decision {
			case tui.DecisionNo:
				r.Logger.Debug("skipped", "path", entry.Path)
				r.summary.Skipped++

				continue
			case tui.DecisionQuit:
				r.Logger.Debug("stopped at prompt", "path", entry.Path)
				return exitStatus(failed)
			case tui.DecisionAll:
				ask = false
			case tui.DecisionYes, tui.DecisionPending:
			}
		}

		result, err := r.Executor.Touch(entry.Path, target, mode)
		if err != nil {
			r.report(err, entry.Path)
			r.summary.Failed++

			if pkgerrors.ScopeOf(err) == pkgerrors.ScopeProcess {
				if pkgerrors.HasKind(err, pkgerrors.KindClockRestoreFailure) {
					return ExitClockRestore
				}

				return ExitFailure
			}

			failed = true

			continue
		}

		if result.Forged {
			r.summary.Forged++
		} else {
			r.summary.Touched++
		}

		r.Logger.Info("ctime changed",
			"path", result.Path,
			"ctime", timespec.Format(result.Ctime),
			"forged", result.Forged)
	}

	if err := scanner.Err(); err != nil {
		r.report(pkgerrors.New(pkgerrors.KindConfiguration, "", err), "")
		return ExitConfiguration
	}

	if cfg.DryRun {
		return ExitOK
	}

	return exitStatus(failed)
}

// finish logs the summary, and prints it when verbose.
func (r *Runner) finish() {
	r.Logger.Info("run finished",
		"forged", r.summary.Forged,
		"touched", r.summary.Touched,
		"previewed", r.summary.Previewed,
		"skipped", r.summary.Skipped,
		"failed", r.summary.Failed)

	if r.Config.Verbose {
		fmt.Fprintln(r.Stderr, r.summary.Render())
	}
}

func (r *Runner) defaults() {
	if r.Enricher == nil {
		r.Enricher = pkgerrors.NewEnricher()
	}

	if r.Stdout == nil {
		r.Stdout = io.Discard
	}

	if r.Stderr == nil {
		r.Stderr = io.Discard
	}

	if r.Logger == nil {
		r.Logger = slog.New(slog.DiscardHandler)
	}
}

// preview prints "<path>\t<time>" or the lookup failure.
func (r *Runner) preview(path string, target timespec.TargetTime, mode timespec.Mode) {
	at, err := r.Executor.Preview(path, target, mode)
	if err != nil {
		r.report(err, path)
		r.summary.Failed++

		return
	}

	r.summary.Previewed++
	fmt.Fprintf(r.Stdout, "%s\t%s\n", path, r.formatPreview(at))
}

// formatPreview renders a dry-run time in the -f format when one was given,
// so the output can be fed back to -t.
func (r *Runner) formatPreview(at time.Time) string {
	if r.Config.Format == "" {
		return timespec.Format(at)
	}

	return timespec.FormatWith(at, string(r.Config.Format))
}

// ask shows the time path would get and returns the answer.
func (r *Runner) ask(path string, target timespec.TargetTime, mode timespec.Mode) (tui.Decision, error) {
	at, err := r.Executor.Preview(path, target, mode)
	if err != nil {
		return tui.DecisionNo, err
	}

	decision, err := r.Confirm(path, timespec.Format(at))
	if err != nil {
		return tui.DecisionQuit, fmt.Errorf("confirmation prompt: %w", err)
	}

	return decision, nil
}

// report prints one diagnostic. A failed clock restore gets a banner of its
// own ahead of the message.
func (r *Runner) report(err error, path string) {
	r.Logger.Debug("failure", "path", path, "kind", pkgerrors.KindOf(err).String(), "error", err.Error())

	if pkgerrors.HasKind(err, pkgerrors.KindClockRestoreFailure) {
		fmt.Fprintln(r.Stderr, tui.RenderAlarm(clockRestoreBanner))
	}

	message := "touch-ctime: " + err.Error()
	if pkgerrors.ScopeOf(err) == pkgerrors.ScopeFile {
		fmt.Fprintln(r.Stderr, tui.RenderWarning(message))
	} else {
		fmt.Fprintln(r.Stderr, tui.RenderError(message))
	}

	if !r.Config.Verbose {
		return
	}

	if suggestions := pkgerrors.FormatSuggestions(r.Enricher.Enrich(err, path)); suggestions != "" {
		fmt.Fprintln(r.Stderr, tui.RenderDim(suggestions))
	}
}

func exitStatus(failed bool) int {
	if failed {
		return ExitFailure
	}

	return ExitOK
}
