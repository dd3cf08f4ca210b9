// Package filesystem provides an abstraction layer for the filesystem operations
// the ctime executor needs, to enable dependency injection and testing without
// touching real inodes.
package filesystem

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// permBits selects the bits chmod(2) accepts: rwx for user/group/other plus
// setuid, setgid and sticky.
const permBits = 0o7777

// Inode is the subset of a file's metadata the executor works with.
// This is our own type (not os.FileInfo) so ctime and the raw permission
// bits are available on every platform.
type Inode struct {
	// Perm holds the permission bits, replayed unchanged to force a ctime update
	Perm uint32

	// IsDir indicates if this is a directory
	IsDir bool

	Atime time.Time
	Mtime time.Time
	Ctime time.Time
}

// FileSystem is an interface that abstracts filesystem operations.
// This allows for dependency injection and testing with mock implementations.
type FileSystem interface {
	// Stat returns the inode metadata of path, following symlinks.
	Stat(path string) (Inode, error)

	// Chmod sets the permission bits of path.
	Chmod(path string, perm uint32) error

	// Scan expands command-line targets into the files to process.
	Scan(roots []string, opts ScanOptions) TargetScanner
}

// RealFileSystem implements FileSystem with system calls.
// Interrupted calls (EINTR) are retried transparently.
type RealFileSystem struct{}

// NewRealFileSystem creates a new RealFileSystem instance.
func NewRealFileSystem() *RealFileSystem {
	return &RealFileSystem{}
}

// Chmod changes the permission bits of a file.
func (fs *RealFileSystem) Chmod(path string, perm uint32) error {
	err := retryOnEINTR(func() error {
		return unix.Chmod(path, perm&permBits)
	})
	if err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}

	return nil
}

// Scan returns an iterator over the targets named by roots.
func (fs *RealFileSystem) Scan(roots []string, opts ScanOptions) TargetScanner {
	return newRealTargetScanner(roots, opts)
}

// Stat returns inode information.
func (fs *RealFileSystem) Stat(path string) (Inode, error) {
	var inode Inode

	err := retryOnEINTR(func() error {
		var statErr error
		inode, statErr = statInode(path)

		return statErr
	})
	if err != nil {
		return Inode{}, fmt.Errorf("stat %s: %w", path, err)
	}

	return inode, nil
}

// retryOnEINTR calls op until it returns anything other than EINTR.
func retryOnEINTR(op func() error) error {
	for {
		err := op()
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}
