//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package runner_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
	"golang.org/x/sys/unix"

	"github.com/joe/touch-ctime/internal/config"
	"github.com/joe/touch-ctime/internal/ctime"
	"github.com/joe/touch-ctime/internal/runner"
	"github.com/joe/touch-ctime/internal/sigguard"
	"github.com/joe/touch-ctime/internal/sysclock"
	"github.com/joe/touch-ctime/internal/timespec"
	"github.com/joe/touch-ctime/internal/tui"
	"github.com/joe/touch-ctime/pkg/filesystem"
)

//nolint:gochecknoglobals // Fixed instants shared by the fixtures
var (
	realNow = time.Date(2024, 7, 9, 10, 11, 12, 0, time.UTC)
	old     = time.Date(2020, 2, 2, 2, 2, 2, 0, time.UTC)
	target  = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
)

type noopBlocker struct{}

func (noopBlocker) Block() (sigguard.Guard, error) { return noopGuard{}, nil }

type noopGuard struct{}

func (noopGuard) Release() error { return nil }

type fixture struct {
	clock  *sysclock.MockClock
	fs     *filesystem.MockFileSystem
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	asked  []string
}

func newFixture() *fixture {
	clock := sysclock.NewMockClock(realNow)
	mockFS := filesystem.NewMockFileSystem(clock.Current)

	for _, path := range []string{"/data/a.txt", "/data/b.txt"} {
		mockFS.AddFile(path, filesystem.Inode{Perm: 0o644, Atime: old, Mtime: old, Ctime: old})
	}

	return &fixture{clock: clock, fs: mockFS, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
}

// run parses args and runs them against the fixture. answers, if given, are
// returned by the confirmation prompt in order.
func (f *fixture) run(t *testing.T, args []string, answers ...tui.Decision) int {
	t.Helper()

	cfg, err := config.ParseArgs(args)
	if err != nil {
		t.Fatalf("ParseArgs(%v) error = %v", args, err)
	}

	return f.runConfig(cfg, answers...)
}

// runConfig runs an already built configuration, bypassing flag validation.
func (f *fixture) runConfig(cfg *config.Config, answers ...tui.Decision) int {
	r := &runner.Runner{
		Config:   cfg,
		Resolver: timespec.NewResolver(f.fs, func() time.Time { return realNow }),
		Executor: ctime.New(f.fs, f.clock, noopBlocker{}, nil),
		Targets:  f.fs,
		Confirm: func(path, _ string) (tui.Decision, error) {
			f.asked = append(f.asked, path)
			if len(answers) == 0 {
				return tui.DecisionQuit, nil
			}

			next := answers[0]
			answers = answers[1:]

			return next, nil
		},
		Stdout: f.stdout,
		Stderr: f.stderr,
	}

	return r.Run()
}

func (f *fixture) ctime(t *testing.T, path string) time.Time {
	t.Helper()

	inode, ok := f.fs.Inode(path)
	if !ok {
		t.Fatalf("no inode for %s", path)
	}

	return inode.Ctime
}

func TestRun_ForgesEveryFile(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	f := newFixture()

	status := f.run(t, []string{"-t", "2001-01-01 00:00:00", "/data/a.txt", "/data/b.txt"})

	g.Expect(status).To(Equal(runner.ExitOK))
	g.Expect(f.ctime(t, "/data/a.txt")).To(Equal(target))
	g.Expect(f.ctime(t, "/data/b.txt")).To(Equal(target))
	g.Expect(f.clock.Current().Sub(realNow)).To(BeNumerically("<", time.Second))
	g.Expect(f.stderr.String()).To(BeEmpty())
}

func TestRun_FileScopedFailureContinues(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	f := newFixture()

	status := f.run(t, []string{"-t", "2001-01-01 00:00:00", "/data/a.txt", "/data/missing.txt", "/data/b.txt"})

	g.Expect(status).To(Equal(runner.ExitFailure))
	g.Expect(f.stderr.String()).To(ContainSubstring("/data/missing.txt"))
	g.Expect(f.stderr.String()).To(ContainSubstring("file not accessible"))
	g.Expect(f.ctime(t, "/data/a.txt")).To(Equal(target))
	g.Expect(f.ctime(t, "/data/b.txt")).To(Equal(target))
	g.Expect(f.fs.Calls()).NotTo(ContainElement("chmod /data/missing.txt"))
}

func TestRun_InodeTouchFailureContinues(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	f := newFixture()
	f.fs.SetChmodError("/data/a.txt", unix.EROFS)

	status := f.run(t, []string{"-t", "2001-01-01 00:00:00", "/data/a.txt", "/data/b.txt"})

	g.Expect(status).To(Equal(runner.ExitFailure))
	g.Expect(f.stderr.String()).To(ContainSubstring("inode touch failed"))
	g.Expect(f.ctime(t, "/data/b.txt")).To(Equal(target))
}

func TestRun_ClockWriteFailureAborts(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	f := newFixture()
	f.clock.FailSets(unix.EPERM)

	status := f.run(t, []string{"-t", "2001-01-01 00:00:00", "/data/a.txt", "/data/b.txt"})

	g.Expect(status).To(Equal(runner.ExitFailure))
	g.Expect(f.stderr.String()).To(ContainSubstring("clock write failed"))
	g.Expect(f.fs.Calls()).NotTo(ContainElement("stat /data/b.txt"))
	g.Expect(f.ctime(t, "/data/a.txt")).To(Equal(old))
}

func TestRun_ClockRestoreFailureIsDistinct(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	f := newFixture()
	f.clock.FailSets(nil, unix.EINVAL)

	status := f.run(t, []string{"-t", "2001-01-01 00:00:00", "/data/a.txt", "/data/b.txt"})

	g.Expect(status).To(Equal(runner.ExitClockRestore))
	g.Expect(f.stderr.String()).To(ContainSubstring("SYSTEM CLOCK NOT RESTORED"))
	g.Expect(f.stderr.String()).To(ContainSubstring("clock restore failed"))
	g.Expect(f.fs.Calls()).NotTo(ContainElement("stat /data/b.txt"))
}

func TestRun_DryRun(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	f := newFixture()

	for range 2 {
		status := f.run(t, []string{"-n", "-t", "2001-01-01 00:00:00", "/data/a.txt", "/data/missing.txt"})
		g.Expect(status).To(Equal(runner.ExitOK))
	}

	g.Expect(strings.Split(strings.TrimSpace(f.stdout.String()), "\n")).To(Equal([]string{
		"/data/a.txt\t2001-01-01 00:00:00.000000",
		"/data/a.txt\t2001-01-01 00:00:00.000000",
	}))
	g.Expect(f.stderr.String()).To(ContainSubstring("/data/missing.txt"))
	g.Expect(f.clock.Sets()).To(BeEmpty())
	g.Expect(f.ctime(t, "/data/a.txt")).To(Equal(old))

	for _, call := range f.fs.Calls() {
		g.Expect(call).To(HavePrefix("stat "))
	}
}

func TestRun_InvalidTimestampIsConfigurationError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	f := newFixture()

	status := f.run(t, []string{"-t", "2001-13-01 00:00:00", "/data/a.txt"})

	g.Expect(status).To(Equal(runner.ExitConfiguration))
	g.Expect(f.stderr.String()).To(ContainSubstring("invalid timestamp"))
	g.Expect(f.fs.Calls()).To(BeEmpty())
}

func TestRun_DryRunUsesGivenFormat(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	f := newFixture()

	status := f.run(t, []string{"-n", "-f", "unix", "-t", "978307200", "/data/a.txt"})

	g.Expect(status).To(Equal(runner.ExitOK))
	g.Expect(f.stdout.String()).To(Equal("/data/a.txt\t978307200\n"))
	g.Expect(f.clock.Sets()).To(BeEmpty())
}

func TestRun_EmptyTimestampTouchesNothing(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	f := newFixture()
	empty := ""

	status := f.runConfig(&config.Config{Timestamp: &empty, Files: []string{"/data/a.txt"}})

	g.Expect(status).To(Equal(runner.ExitConfiguration))
	g.Expect(f.stderr.String()).To(ContainSubstring("empty value"))
	g.Expect(f.clock.Sets()).To(BeEmpty())
	g.Expect(f.fs.Calls()).To(BeEmpty())
	g.Expect(f.ctime(t, "/data/a.txt")).To(Equal(old))
}

func TestRun_Reference(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	f := newFixture()

	refCtime := time.Date(2009, 9, 9, 9, 9, 9, 0, time.UTC)
	f.fs.AddFile("/ref", filesystem.Inode{Perm: 0o600, Atime: old, Mtime: old, Ctime: refCtime})

	status := f.run(t, []string{"-r", "/ref", "/data/a.txt"})

	g.Expect(status).To(Equal(runner.ExitOK))
	g.Expect(f.ctime(t, "/data/a.txt")).To(Equal(refCtime))
}

func TestRun_ReferenceNotAccessible(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	f := newFixture()

	status := f.run(t, []string{"-r", "/nope", "/data/a.txt"})

	g.Expect(status).To(Equal(runner.ExitFailure))
	g.Expect(f.stderr.String()).To(ContainSubstring("/nope"))
	g.Expect(f.fs.Calls()).To(Equal([]string{"stat /nope"}))
}

func TestRun_AtimeModeDerivesPerFile(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	f := newFixture()

	atimeA := time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)
	atimeB := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
	f.fs.AddFile("/data/a.txt", filesystem.Inode{Perm: 0o644, Atime: atimeA, Mtime: old, Ctime: old})
	f.fs.AddFile("/data/b.txt", filesystem.Inode{Perm: 0o644, Atime: atimeB, Mtime: old, Ctime: old})

	status := f.run(t, []string{"-a", "/data/a.txt", "/data/b.txt"})

	g.Expect(status).To(Equal(runner.ExitOK))
	g.Expect(f.ctime(t, "/data/a.txt")).To(Equal(atimeA))
	g.Expect(f.ctime(t, "/data/b.txt")).To(Equal(atimeB))
}

func TestRun_Recursive(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	f := newFixture()

	f.fs.AddDir("/logs", filesystem.Inode{Perm: 0o755, Ctime: old})
	f.fs.AddFile("/logs/app.log", filesystem.Inode{Perm: 0o644, Ctime: old})
	f.fs.AddFile("/logs/app.txt", filesystem.Inode{Perm: 0o644, Ctime: old})

	status := f.run(t, []string{"-R", "--include", "*.log", "-t", "2001-01-01 00:00:00", "/logs"})

	g.Expect(status).To(Equal(runner.ExitOK))
	g.Expect(f.ctime(t, "/logs")).To(Equal(target))
	g.Expect(f.ctime(t, "/logs/app.log")).To(Equal(target))
	g.Expect(f.ctime(t, "/logs/app.txt")).To(Equal(old))
}

func TestRun_Interactive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		answers   []tui.Decision
		asked     []string
		forged    []string
		untouched []string
		status    int
	}{
		{
			name:      "no then yes",
			answers:   []tui.Decision{tui.DecisionNo, tui.DecisionYes},
			asked:     []string{"/data/a.txt", "/data/b.txt"},
			forged:    []string{"/data/b.txt"},
			untouched: []string{"/data/a.txt"},
			status:    runner.ExitOK,
		},
		{
			name:    "all stops asking",
			answers: []tui.Decision{tui.DecisionAll},
			asked:   []string{"/data/a.txt"},
			forged:  []string{"/data/a.txt", "/data/b.txt"},
			status:  runner.ExitOK,
		},
		{
			name:      "quit stops the run",
			answers:   []tui.Decision{tui.DecisionQuit},
			asked:     []string{"/data/a.txt"},
			untouched: []string{"/data/a.txt", "/data/b.txt"},
			status:    runner.ExitOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)
			f := newFixture()

			status := f.run(t, []string{"-i", "-t", "2001-01-01 00:00:00", "/data/a.txt", "/data/b.txt"}, tt.answers...)

			g.Expect(status).To(Equal(tt.status))
			g.Expect(f.asked).To(Equal(tt.asked))

			for _, path := range tt.forged {
				g.Expect(f.ctime(t, path)).To(Equal(target), path)
			}

			for _, path := range tt.untouched {
				g.Expect(f.ctime(t, path)).To(Equal(old), path)
			}
		})
	}
}

func TestRun_VerboseAddsSuggestions(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	f := newFixture()
	f.clock.FailSets(unix.EPERM)

	status := f.run(t, []string{"-v", "-t", "2001-01-01 00:00:00", "/data/a.txt"})

	g.Expect(status).To(Equal(runner.ExitFailure))
	g.Expect(f.stderr.String()).To(ContainSubstring("•"))
	g.Expect(f.stderr.String()).To(ContainSubstring("CAP_SYS_TIME"))
}

func TestRun_ConfirmErrorStops(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	f := newFixture()

	cfg, err := config.ParseArgs([]string{"-i", "-t", "2001-01-01 00:00:00", "/data/a.txt"})
	g.Expect(err).ShouldNot(HaveOccurred())

	r := &runner.Runner{
		Config:   cfg,
		Resolver: timespec.NewResolver(f.fs, nil),
		Executor: ctime.New(f.fs, f.clock, noopBlocker{}, nil),
		Targets:  f.fs,
		Confirm: func(string, string) (tui.Decision, error) {
			return tui.DecisionPending, errors.New("no terminal")
		},
		Stderr: f.stderr,
	}

	g.Expect(r.Run()).To(Equal(runner.ExitFailure))
	g.Expect(f.stderr.String()).To(ContainSubstring("confirmation prompt: no terminal"))
	g.Expect(strings.Count(f.stderr.String(), "confirmation prompt")).To(Equal(1))
	g.Expect(f.ctime(t, "/data/a.txt")).To(Equal(old))
}
