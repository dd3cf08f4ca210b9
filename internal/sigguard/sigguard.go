// Package sigguard defers signal delivery around a critical section.
//
// Block masks every signal on the calling goroutine's OS thread and routes
// catchable terminating and stopping signals to an internal queue so the Go
// runtime does not act on them from another thread. Release restores the
// previous thread mask, stops the routing and re-raises each queued signal
// against the process so its normal disposition applies afterwards.
//
// SIGKILL and SIGSTOP cannot be deferred.
package sigguard

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
)

// pendingCapacity bounds how many distinct deliveries are kept while blocked.
const pendingCapacity = 32

// Blocker acquires the uninterruptible-execution token.
type Blocker interface {
	Block() (Guard, error)
}

// Guard is held while signals are deferred. Release must be called exactly
// once on every exit path; further calls are no-ops.
type Guard interface {
	Release() error
}

// Mask is the process Blocker.
type Mask struct {
	raise func(os.Signal) error
}

// NewMask returns a Blocker that re-raises deferred signals against this process.
func NewMask() *Mask {
	return &Mask{raise: raiseSelf}
}

//nolint:gochecknoglobals // Fixed list shared by every guard
var deferredSignals = []os.Signal{
	syscall.SIGHUP,
	syscall.SIGINT,
	syscall.SIGQUIT,
	syscall.SIGTERM,
	syscall.SIGUSR1,
	syscall.SIGUSR2,
	syscall.SIGALRM,
	syscall.SIGVTALRM,
	syscall.SIGPIPE,
	syscall.SIGXCPU,
	syscall.SIGXFSZ,
	syscall.SIGTSTP,
	syscall.SIGTTIN,
	syscall.SIGTTOU,
}

// Block masks all signals on the current thread and starts deferring the
// catchable ones. The goroutine stays locked to its thread until Release.
func (m *Mask) Block() (Guard, error) {
	runtime.LockOSThread()

	saved, err := blockThread()
	if err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("sigprocmask block: %w", err)
	}

	g := &guard{
		saved:   saved,
		pending: make(chan os.Signal, pendingCapacity),
		raise:   m.raise,
	}
	signal.Notify(g.pending, deferredSignals...)

	return g, nil
}

type guard struct {
	once     sync.Once
	saved    threadMask
	pending  chan os.Signal
	raise    func(os.Signal) error
	deferred []os.Signal
}

// Release restores the thread mask and replays deferred signals.
func (g *guard) Release() error {
	var err error

	g.once.Do(func() {
		err = restoreThread(g.saved)
		signal.Stop(g.pending)
		runtime.UnlockOSThread()
		g.replay()
	})

	if err != nil {
		return fmt.Errorf("sigprocmask restore: %w", err)
	}

	return nil
}

func (g *guard) replay() {
	for {
		select {
		case sig := <-g.pending:
			g.deferred = append(g.deferred, sig)
			_ = g.raise(sig)
		default:
			return
		}
	}
}

func raiseSelf(sig os.Signal) error {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return fmt.Errorf("cannot raise %v", sig)
	}

	return syscall.Kill(os.Getpid(), s)
}

// Deferred returns the signals g held back and re-raised on Release, or nil
// if g does not record them.
func Deferred(g Guard) []os.Signal {
	held, ok := g.(interface{ Deferred() []os.Signal })
	if !ok {
		return nil
	}

	return held.Deferred()
}

// Deferred returns a copy of the signals replayed by Release.
func (g *guard) Deferred() []os.Signal {
	return append([]os.Signal(nil), g.deferred...)
}
