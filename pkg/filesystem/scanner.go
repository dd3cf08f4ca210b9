package filesystem

// TargetScanner is an iterator over the files named on the command line.
// It provides a simple Next pattern for traversing the expanded targets.
type TargetScanner interface {
	// Next advances to the next target.
	// Returns (Target{}, false) when done.
	Next() (Target, bool)

	// Err returns an error that prevented the scan from producing targets at all,
	// such as an invalid include pattern. Per-entry walk errors are reported on
	// the Target instead.
	Err() error
}

// Target is one file to process.
type Target struct {
	// Path is the path as it will be handed to Stat and Chmod
	Path string

	// Err is set when the entry could not be reached while walking;
	// the driver reports it as a file-scoped failure
	Err error
}

// ScanOptions controls target expansion.
type ScanOptions struct {
	// Recursive descends into directories
	Recursive bool

	// Include filters walked entries with a doublestar pattern matched
	// against the path relative to its root. Roots are always included.
	Include string
}
