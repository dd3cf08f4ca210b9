// Package sysclock reads and writes the system-wide wall clock.
//
// System talks to the kernel and needs root or CAP_SYS_TIME to Set.
// MockClock is an in-memory clock for tests with failure injection.
package sysclock

import (
	"errors"
	"sync"
	"time"
)

// ErrUnsupported is returned on platforms without settimeofday.
var ErrUnsupported = errors.New("setting the system clock is not supported on this platform")

// Clock is the system wall clock.
type Clock interface {
	// Now reads the wall clock.
	Now() (time.Time, error)

	// Set moves the wall clock to t, with microsecond resolution.
	Set(t time.Time) error
}

// --- System clock ---

// System is the kernel's wall clock.
type System struct{}

// NewSystem returns the kernel clock.
func NewSystem() *System {
	return &System{}
}

// Now reads the clock with gettimeofday.
func (c *System) Now() (time.Time, error) {
	return getTimeOfDay()
}

// Set moves the clock with settimeofday.
func (c *System) Set(t time.Time) error {
	return setTimeOfDay(t)
}

// --- Mock Clock (for testing) ---

// MockClock is a test clock with controllable time and injectable failures.
type MockClock struct {
	mu      sync.RWMutex
	current time.Time
	nowErr  error
	setErrs []error
	sets    []time.Time

	// Trace, when set, is called with "now" or "set <RFC3339Nano>" before each call
	Trace func(op string)
}

// NewMockClock creates a mock clock set to the given time.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t}
}

// Advance moves the mock time forward.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Current returns the mock time without recording a call.
func (c *MockClock) Current() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// FailNow makes every Now call fail with err.
func (c *MockClock) FailNow(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nowErr = err
}

// FailSets queues errors for the following Set calls, in order. A nil entry
// lets that call succeed.
func (c *MockClock) FailSets(errs ...error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setErrs = append(c.setErrs, errs...)
}

// Now returns the mock time.
func (c *MockClock) Now() (time.Time, error) {
	c.trace("now")

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.nowErr != nil {
		return time.Time{}, c.nowErr
	}

	return c.current, nil
}

// Set moves the mock time unless a failure is queued.
func (c *MockClock) Set(t time.Time) error {
	c.trace("set " + t.UTC().Format(time.RFC3339Nano))

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.setErrs) > 0 {
		err := c.setErrs[0]
		c.setErrs = c.setErrs[1:]

		if err != nil {
			return err
		}
	}

	c.sets = append(c.sets, t)
	c.current = t

	return nil
}

// Sets returns every value the clock was successfully set to.
func (c *MockClock) Sets() []time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]time.Time(nil), c.sets...)
}

func (c *MockClock) trace(op string) {
	c.mu.RLock()
	trace := c.Trace
	c.mu.RUnlock()

	if trace != nil {
		trace(op)
	}
}
