//go:build linux || darwin || freebsd || netbsd || openbsd

package filesystem

import (
	"time"

	"golang.org/x/sys/unix"
)

func statInode(path string) (Inode, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return Inode{}, err
	}

	return Inode{
		Perm:  uint32(st.Mode) & permBits,
		IsDir: uint32(st.Mode)&unix.S_IFMT == unix.S_IFDIR,
		Atime: timespecToTime(st.Atim),
		Mtime: timespecToTime(st.Mtim),
		Ctime: timespecToTime(st.Ctim),
	}, nil
}

func timespecToTime(ts unix.Timespec) time.Time {
	sec, nsec := ts.Unix()

	return time.Unix(sec, nsec)
}
