//go:build !linux

package sigguard

// threadMask is empty where pthread_sigmask is not exposed; deferral then
// relies on signal routing alone.
type threadMask struct{}

func blockThread() (threadMask, error) {
	return threadMask{}, nil
}

func restoreThread(threadMask) error {
	return nil
}
