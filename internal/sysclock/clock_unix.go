//go:build linux || darwin || freebsd || netbsd || openbsd

package sysclock

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

func getTimeOfDay() (time.Time, error) {
	var tv unix.Timeval
	if err := unix.Gettimeofday(&tv); err != nil {
		return time.Time{}, fmt.Errorf("gettimeofday: %w", err)
	}

	sec, nsec := tv.Unix()

	return time.Unix(sec, nsec), nil
}

// setTimeOfDay uses settimeofday with microsecond precision.
// Requires CAP_SYS_TIME (root).
func setTimeOfDay(t time.Time) error {
	tv := unix.NsecToTimeval(t.UnixNano())
	if err := unix.Settimeofday(&tv); err != nil {
		return fmt.Errorf("settimeofday %s: %w", t.Format(time.RFC3339Nano), err)
	}

	return nil
}
