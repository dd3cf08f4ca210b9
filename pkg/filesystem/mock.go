package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockFileSystem is an in-memory inode table for testing.
// Chmod stamps ctime with Now, so tests can link it to a mock clock and
// observe the same effect the kernel has.
type MockFileSystem struct {
	mu       sync.RWMutex
	inodes   map[string]*Inode
	statErr  map[string]error
	chmodErr map[string]error
	calls    []string

	// Now is the clock used to stamp ctime on Chmod
	Now func() time.Time

	// Trace, when set, is called with every operation before it runs
	Trace func(op, path string)
}

// NewMockFileSystem creates a new empty MockFileSystem stamping ctime with now.
func NewMockFileSystem(now func() time.Time) *MockFileSystem {
	if now == nil {
		now = time.Now
	}

	return &MockFileSystem{
		inodes:   make(map[string]*Inode),
		statErr:  make(map[string]error),
		chmodErr: make(map[string]error),
		Now:      now,
	}
}

// AddFile adds a regular file with the given metadata.
func (m *MockFileSystem) AddFile(path string, inode Inode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inode.IsDir = false
	m.inodes[filepath.Clean(path)] = &inode
}

// AddDir adds a directory with the given metadata.
func (m *MockFileSystem) AddDir(path string, inode Inode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inode.IsDir = true
	m.inodes[filepath.Clean(path)] = &inode
}

// Calls returns the operations performed so far, as "op path".
func (m *MockFileSystem) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]string(nil), m.calls...)
}

// Chmod sets the permission bits and stamps ctime with Now.
func (m *MockFileSystem) Chmod(path string, perm uint32) error {
	m.record("chmod", path)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.chmodErr[filepath.Clean(path)]; err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}

	inode, ok := m.inodes[filepath.Clean(path)]
	if !ok {
		return fmt.Errorf("chmod %s: %w", path, fs.ErrNotExist)
	}

	inode.Perm = perm & permBits
	inode.Ctime = m.Now()

	return nil
}

// Inode returns the current metadata of path.
func (m *MockFileSystem) Inode(path string) (Inode, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inode, ok := m.inodes[filepath.Clean(path)]
	if !ok {
		return Inode{}, false
	}

	return *inode, true
}

// Scan expands roots against the inode table.
func (m *MockFileSystem) Scan(roots []string, opts ScanOptions) TargetScanner {
	scanner := &mockTargetScanner{index: -1}

	if err := ValidateGlob(opts.Include); err != nil {
		scanner.err = err
		return scanner
	}

	filter := NewGlobFilter(opts.Include)

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, root := range roots {
		scanner.targets = append(scanner.targets, Target{Path: root})

		inode, ok := m.inodes[filepath.Clean(root)]
		if !opts.Recursive || !ok || !inode.IsDir {
			continue
		}

		prefix := filepath.Clean(root) + string(filepath.Separator)

		var children []string
		for path := range m.inodes {
			if strings.HasPrefix(path, prefix) && filter.ShouldInclude(strings.TrimPrefix(path, prefix)) {
				children = append(children, path)
			}
		}

		sort.Strings(children)

		for _, child := range children {
			scanner.targets = append(scanner.targets, Target{Path: child})
		}
	}

	return scanner
}

// SetChmodError makes Chmod of path fail with err.
func (m *MockFileSystem) SetChmodError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.chmodErr[filepath.Clean(path)] = err
}

// SetStatError makes Stat of path fail with err.
func (m *MockFileSystem) SetStatError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.statErr[filepath.Clean(path)] = err
}

// Stat returns the metadata of path.
func (m *MockFileSystem) Stat(path string) (Inode, error) {
	m.record("stat", path)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.statErr[filepath.Clean(path)]; err != nil {
		return Inode{}, fmt.Errorf("stat %s: %w", path, err)
	}

	inode, ok := m.inodes[filepath.Clean(path)]
	if !ok {
		return Inode{}, fmt.Errorf("stat %s: %w", path, fs.ErrNotExist)
	}

	return *inode, nil
}

func (m *MockFileSystem) record(op, path string) {
	m.mu.Lock()
	m.calls = append(m.calls, op+" "+path)
	trace := m.Trace
	m.mu.Unlock()

	if trace != nil {
		trace(op, path)
	}
}

// mockTargetScanner iterates over a precomputed target list.
type mockTargetScanner struct {
	targets []Target
	index   int
	err     error
}

// Next advances to the next target.
func (s *mockTargetScanner) Next() (Target, bool) {
	if s.err != nil {
		return Target{}, false
	}

	s.index++
	if s.index >= len(s.targets) {
		return Target{}, false
	}

	return s.targets[s.index], true
}

// Err returns the scan error.
func (s *mockTargetScanner) Err() error {
	return s.err
}
