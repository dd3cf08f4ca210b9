package runner

import (
	"fmt"
	"strings"

	"github.com/joe/touch-ctime/internal/tui"
)

// Summary counts what happened to each file of a run.
type Summary struct {
	// Forged files got the target ctime
	Forged int
	// Touched files had no target and got the current time
	Touched int
	// Previewed files were only reported (dry-run)
	Previewed int
	// Skipped files were declined at the prompt
	Skipped int
	// Failed files hit a file-scoped or process-scoped error
	Failed int
}

// Total returns the number of files the run looked at.
func (s Summary) Total() int {
	return s.Forged + s.Touched + s.Previewed + s.Skipped + s.Failed
}

// String renders the non-zero counters, e.g. "2 forged, 1 failed".
func (s Summary) String() string {
	parts := make([]string, 0, 5) //nolint:mnd // One per counter

	for _, c := range []struct {
		n     int
		label string
	}{
		{s.Forged, "forged"},
		{s.Touched, "touched"},
		{s.Previewed, "previewed"},
		{s.Skipped, "skipped"},
		{s.Failed, "failed"},
	} {
		if c.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c.n, c.label))
		}
	}

	if len(parts) == 0 {
		return "no files"
	}

	return strings.Join(parts, ", ")
}

// Render styles the summary line: green when nothing failed.
func (s Summary) Render() string {
	if s.Failed > 0 {
		return tui.RenderWarning(s.String())
	}

	return tui.RenderSuccess(s.String())
}
