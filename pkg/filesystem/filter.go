package filesystem

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileFilter decides which walked entries are processed.
type FileFilter interface {
	// ShouldInclude returns true if the entry at the given relative path should be touched
	ShouldInclude(relativePath string) bool
}

// GlobFilter implements FileFilter using glob patterns
type GlobFilter struct {
	normalizedPattern string
	isEmpty           bool
}

// NewGlobFilter creates a new GlobFilter with the given pattern
// Empty pattern matches all files
func NewGlobFilter(pattern string) *GlobFilter {
	return &GlobFilter{
		normalizedPattern: strings.ToLower(filepath.ToSlash(pattern)),
		isEmpty:           pattern == "",
	}
}

// ValidateGlob reports whether pattern is a valid doublestar pattern.
func ValidateGlob(pattern string) error {
	if pattern == "" {
		return nil
	}

	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	return nil
}

// ShouldInclude returns true if the entry should be included based on the glob pattern
// Case-insensitive matching
func (f *GlobFilter) ShouldInclude(relativePath string) bool {
	if f.isEmpty {
		return true
	}

	normalizedPath := strings.ToLower(filepath.ToSlash(relativePath))

	matched, err := doublestar.Match(f.normalizedPattern, normalizedPath)
	if err != nil {
		return false
	}

	return matched
}

// hasGlobMeta reports whether path contains doublestar metacharacters.
func hasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
