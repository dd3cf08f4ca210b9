package filesystem

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kr/fs"
)

// realTargetScanner expands roots against the real filesystem.
type realTargetScanner struct {
	roots   []string
	opts    ScanOptions
	filter  FileFilter
	targets []Target
	index   int
	err     error
	scanned bool
}

// newRealTargetScanner creates a new scanner for the given roots.
func newRealTargetScanner(roots []string, opts ScanOptions) *realTargetScanner {
	return &realTargetScanner{
		roots:   roots,
		opts:    opts,
		filter:  NewGlobFilter(opts.Include),
		targets: make([]Target, 0, len(roots)),
		index:   -1,
	}
}

// Next advances to the next target and returns it.
func (s *realTargetScanner) Next() (Target, bool) {
	// Scan on first call
	if !s.scanned {
		s.scan()
		s.scanned = true
	}

	if s.err != nil {
		return Target{}, false
	}

	s.index++
	if s.index >= len(s.targets) {
		return Target{}, false
	}

	return s.targets[s.index], true
}

// Err returns any error that prevented scanning.
func (s *realTargetScanner) Err() error {
	return s.err
}

func (s *realTargetScanner) scan() {
	if err := ValidateGlob(s.opts.Include); err != nil {
		s.err = err
		return
	}

	for _, root := range s.roots {
		for _, match := range expandGlob(root) {
			if s.opts.Recursive {
				s.walk(match)
			} else {
				s.targets = append(s.targets, Target{Path: match})
			}
		}
	}
}

// walk appends match and, if it is a directory, every entry below it.
// Symlinks are not followed while descending.
func (s *realTargetScanner) walk(root string) {
	walker := fs.Walk(root)
	for walker.Step() {
		path := walker.Path()

		// A directory that cannot be read shows up a second time with the error
		if err := walker.Err(); err != nil {
			s.targets = append(s.targets, Target{Path: path, Err: err})
			continue
		}

		if path == root {
			s.targets = append(s.targets, Target{Path: path})
			continue
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			s.targets = append(s.targets, Target{Path: path, Err: err})
			continue
		}

		if s.filter.ShouldInclude(relPath) {
			s.targets = append(s.targets, Target{Path: path})
		}
	}
}

// expandGlob returns the paths matched by root. A root that exists literally,
// has no metacharacters, or matches nothing is returned unchanged so that the
// executor reports it.
func expandGlob(root string) []string {
	if !hasGlobMeta(root) {
		return []string{root}
	}

	if _, err := os.Lstat(root); err == nil {
		return []string{root}
	}

	matches, err := doublestar.FilepathGlob(root)
	if err != nil || len(matches) == 0 {
		return []string{root}
	}

	return matches
}
