// Package config handles application configuration and command-line argument parsing.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexflint/go-arg"

	"github.com/joe/touch-ctime/internal/timespec"
	pkgerrors "github.com/joe/touch-ctime/pkg/errors"
	"github.com/joe/touch-ctime/pkg/filesystem"
)

// Configuration errors. Each is wrapped in a *pkgerrors.TouchError of kind
// KindConfiguration by PostProcessConfig.
var (
	ErrModeWithTimestamp       = errors.New("The -a, -m & -t options are mutually exclusive") //nolint:staticcheck // user-facing message
	ErrReferenceWithTimestamp  = timespec.ErrExclusiveSources
	ErrEmptyReference          = timespec.ErrEmptyReference
	ErrFormatWithoutTimestamp  = errors.New("-f requires -t")
	ErrIncludeWithoutRecursive = errors.New("--include requires -R")
	ErrNoFiles                 = errors.New("missing file operand")
)

// TimestampFormat names how -t is parsed: one of the built-in grammars or a
// Go reference layout.
type TimestampFormat string

// String returns the format name, "default" for the auto-detecting format.
func (f TimestampFormat) String() string {
	if f == "" {
		return "default"
	}

	return string(f)
}

// ParseTimestampFormat parses a -f value. Built-in names are case-insensitive;
// anything else must be a Go layout with at least one time field.
func ParseTimestampFormat(s string) (TimestampFormat, error) {
	switch strings.ToLower(s) {
	case "default", "auto", "":
		return "", nil
	case timespec.FormatColon:
		return timespec.FormatColon, nil
	case timespec.FormatUnix, "epoch":
		return timespec.FormatUnix, nil
	}

	probe := time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)
	if probe.Format(s) == s {
		return "", fmt.Errorf("invalid format: %s (valid: default, colon, unix, or a Go layout such as %q)", s, time.DateTime)
	}

	return TimestampFormat(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg
func (f *TimestampFormat) UnmarshalText(text []byte) error {
	parsed, err := ParseTimestampFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Config holds the application configuration
type Config struct {
	Atime       bool            `arg:"-a,--atime" help:"Use the file's access time as the new ctime"`
	Mtime       bool            `arg:"-m,--mtime" help:"Use the file's modification time as the new ctime"`
	Reference   *string         `arg:"-r,--reference" placeholder:"FILE" help:"Use FILE's ctime (or its atime/mtime with -a/-m)"`
	Timestamp   *string         `arg:"-t,--timestamp" placeholder:"TIMESTAMP" help:"Explicit time: YYYY-MM-DD HH:MM:SS[.ffffff] or [[[YYYY:]MM:]DD:]hh:mm:ss[.ffffff]"`
	Format      TimestampFormat `arg:"-f,--format" placeholder:"FORMAT" help:"How to parse -t: colon|unix|<Go layout>"`
	DryRun      bool            `arg:"-n,--dry-run" help:"Print the time each file would get, change nothing"`
	Recursive   bool            `arg:"-R,--recursive" help:"Descend into directories"`
	Include     string          `arg:"--include" placeholder:"GLOB" help:"With -R, only touch entries matching GLOB (e.g. '**/*.log')"`
	Interactive bool            `arg:"-i,--interactive" help:"Ask before touching each file"`
	Verbose     bool            `arg:"-v,--verbose" help:"Debug logging and suggestions on errors"`
	LogPath     string          `arg:"--log" placeholder:"PATH" help:"Append structured logs to PATH"`
	Files       []string        `arg:"positional" placeholder:"FILE" help:"Files whose ctime is changed"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Set a file's inode change time (ctime) by briefly moving the system clock. Requires root or CAP_SYS_TIME."
}

// Epilogue returns the text printed after the options for go-arg
func (Config) Epilogue() string {
	return `Timestamp forms accepted by -t:
  2021-03-04 13:22:05[.ffffff]        default layout
  [[[YYYY:]MM:]DD:]hh:mm:ss[.ffffff]  fields missing on the left come from today
  @SECONDS[.ffffff]                   seconds since the epoch (or -f unix)`
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "touch-ctime 1.0.0"
}

// ParseFlags parses command-line flags and returns configuration
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	arg.MustParse(cfg)

	return PostProcessConfig(cfg)
}

// ParseArgs parses args (without the program name). It returns arg.ErrHelp
// and arg.ErrVersion unchanged so the caller can print them.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}

	parser, err := arg.NewParser(arg.Config{Program: "touch-ctime"}, cfg)
	if err != nil {
		return nil, fmt.Errorf("building parser: %w", err)
	}

	if err := parser.Parse(args); err != nil {
		if errors.Is(err, arg.ErrHelp) || errors.Is(err, arg.ErrVersion) {
			return nil, err
		}

		return nil, pkgerrors.New(pkgerrors.KindConfiguration, "", err)
	}

	return PostProcessConfig(cfg)
}

// PostProcessConfig validates option combinations before any file is touched.
// Errors that already carry a kind keep it.
func PostProcessConfig(cfg *Config) (*Config, error) {
	if err := cfg.Validate(); err != nil {
		var te *pkgerrors.TouchError
		if errors.As(err, &te) {
			return nil, err
		}

		return nil, pkgerrors.New(pkgerrors.KindConfiguration, "", err)
	}

	return cfg, nil
}

// Validate reports the first invalid option combination. -t and -r count as
// given even when their value is empty.
func (cfg *Config) Validate() error {
	if (cfg.Atime && cfg.Mtime) || ((cfg.Atime || cfg.Mtime) && cfg.Timestamp != nil) {
		return ErrModeWithTimestamp
	}

	if cfg.Reference != nil && cfg.Timestamp != nil {
		return ErrReferenceWithTimestamp
	}

	if cfg.Format != "" && cfg.Timestamp == nil {
		return ErrFormatWithoutTimestamp
	}

	if cfg.Timestamp != nil && strings.TrimSpace(*cfg.Timestamp) == "" {
		return pkgerrors.New(pkgerrors.KindInvalidTimestamp, "", fmt.Errorf("%w: empty value", timespec.ErrInvalidTimestamp))
	}

	if cfg.Reference != nil && *cfg.Reference == "" {
		return ErrEmptyReference
	}

	if cfg.Include != "" && !cfg.Recursive {
		return ErrIncludeWithoutRecursive
	}

	if err := ValidateFilePattern(cfg.Include); err != nil {
		return err
	}

	if len(cfg.Files) == 0 {
		return ErrNoFiles
	}

	return nil
}

// ValidateFilePattern validates a glob pattern for --include
func ValidateFilePattern(pattern string) error {
	if err := filesystem.ValidateGlob(pattern); err != nil {
		return fmt.Errorf("invalid --include pattern: %w", err)
	}

	return nil
}

// Mode returns where an unset target time comes from
func (cfg *Config) Mode() timespec.Mode {
	switch {
	case cfg.Atime:
		return timespec.ModeAtime
	case cfg.Mtime:
		return timespec.ModeMtime
	default:
		return timespec.ModeDefault
	}
}

// Request returns the time source for the resolver
func (cfg *Config) Request() timespec.Request {
	return timespec.Request{
		Timestamp: cfg.Timestamp,
		Format:    string(cfg.Format),
		Reference: cfg.Reference,
		Mode:      cfg.Mode(),
	}
}

// ReferencePath returns the -r path, or "" when -r was not given.
func (cfg *Config) ReferencePath() string {
	if cfg.Reference == nil {
		return ""
	}

	return *cfg.Reference
}

// ScanOptions returns how the file arguments are expanded
func (cfg *Config) ScanOptions() filesystem.ScanOptions {
	return filesystem.ScanOptions{
		Recursive: cfg.Recursive,
		Include:   cfg.Include,
	}
}
