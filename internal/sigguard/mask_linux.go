//go:build linux

package sigguard

import "golang.org/x/sys/unix"

type threadMask = unix.Sigset_t

// blockThread blocks every signal on the current thread and returns the
// previous mask.
func blockThread() (threadMask, error) {
	var all, old unix.Sigset_t
	for i := range all.Val {
		all.Val[i] = ^all.Val[i]
	}

	if err := unix.PthreadSigmask(unix.SIG_SETMASK, &all, &old); err != nil {
		return old, err
	}

	return old, nil
}

func restoreThread(old threadMask) error {
	return unix.PthreadSigmask(unix.SIG_SETMASK, &old, nil)
}
