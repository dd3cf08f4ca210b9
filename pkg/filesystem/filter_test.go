//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package filesystem_test

import (
	"testing"

	"github.com/joe/touch-ctime/pkg/filesystem"
)

func TestGlobFilterInvalidPattern(t *testing.T) {
	t.Parallel()

	filter := filesystem.NewGlobFilter("[invalid")
	if filter.ShouldInclude("test.txt") {
		t.Error("Invalid pattern should not match files")
	}

	if filesystem.ValidateGlob("[invalid") == nil {
		t.Error("ValidateGlob should reject an unclosed bracket")
	}
}

func TestGlobFilterShouldInclude(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		pattern     string
		path        string
		shouldMatch bool
	}{
		{"empty pattern matches all", "", "any/file.txt", true},
		{"extension at top level", "*.log", "auth.log", true},
		{"extension not recursive", "*.log", "old/auth.log", false},
		{"double star recursive", "**/*.log", "old/rotated/auth.log", true},
		{"case insensitive", "*.LOG", "auth.log", true},
		{"brace expansion", "*.{log,gz}", "auth.gz", true},
		{"no match", "*.log", "notes.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			filter := filesystem.NewGlobFilter(tt.pattern)
			if got := filter.ShouldInclude(tt.path); got != tt.shouldMatch {
				t.Errorf("NewGlobFilter(%q).ShouldInclude(%q) = %v, want %v", tt.pattern, tt.path, got, tt.shouldMatch)
			}
		})
	}
}
