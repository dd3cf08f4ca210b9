// Package main is the entry point for the touch-ctime application.
package main

import (
	"fmt"
	"os"

	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/touch-ctime/internal/config"
	"github.com/joe/touch-ctime/internal/ctime"
	"github.com/joe/touch-ctime/internal/logging"
	"github.com/joe/touch-ctime/internal/runner"
	"github.com/joe/touch-ctime/internal/sigguard"
	"github.com/joe/touch-ctime/internal/sysclock"
	"github.com/joe/touch-ctime/internal/timespec"
	"github.com/joe/touch-ctime/internal/tui"
	"github.com/joe/touch-ctime/pkg/filesystem"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse configuration
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, tui.RenderError("touch-ctime: "+err.Error()))
		return runner.ExitConfiguration
	}

	// Prompts need a terminal on both ends
	if cfg.Interactive && (!term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd()))) {
		fmt.Fprintln(os.Stderr, tui.RenderError("touch-ctime: -i requires a terminal"))
		return runner.ExitConfiguration
	}

	logger, closeLog, err := logging.New(logging.Config{
		Verbose:  cfg.Verbose,
		Output:   os.Stderr,
		FilePath: cfg.LogPath,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, tui.RenderError("touch-ctime: "+err.Error()))
		return runner.ExitConfiguration
	}
	defer closeLog() //nolint:errcheck // Nothing left to report to

	fs := filesystem.NewRealFileSystem()

	r := &runner.Runner{
		Config:   cfg,
		Resolver: timespec.NewResolver(fs, nil),
		Executor: ctime.New(fs, sysclock.NewSystem(), sigguard.NewMask(), logger.With("component", "ctime")),
		Targets:  fs,
		Confirm: func(path, target string) (tui.Decision, error) {
			return tui.Confirm(path, target, os.Stdin, os.Stdout)
		},
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger.With("component", "runner"),
	}

	return r.Run()
}
