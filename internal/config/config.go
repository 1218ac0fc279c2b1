// Package config holds runtime configuration: defaults, an optional YAML
// file, DEDUPE_* environment overrides, CLI flags, and validation.
package config

import (
	"errors"
	"path/filepath"
	"strings"
)

// --- Enum types for validated string fields ---

// LineEnding selects the terminator written after every output line.
type LineEnding string

const (
	LineEndingLF   LineEnding = "lf"   // "\n" (default).
	LineEndingCRLF LineEnding = "crlf" // "\r\n".
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when the log stream is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Mode is derived from which input was given.
type Mode int

const (
	ModeFile Mode = iota
	ModeDirectory
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then [LoadFile], [ApplyEnv], and the CLI flags, in that order, before
// being passed (by pointer) to packages that need it.
type Config struct {
	// Input (exactly one is set).
	InputFile string `yaml:"-"`
	InputDir  string `yaml:"-"`

	// Output file (file mode) or output root (directory mode). Empty
	// means write deduplicated text to stdout.
	Output string `yaml:"output"`

	// Processing.
	IgnorePatterns []string   `yaml:"ignore"`      // Globs pruned from directory walks.
	Encoding       string     `yaml:"encoding"`    // Forced input encoding label; empty = detect.
	LineEnding     LineEnding `yaml:"line_ending"` // Default: "lf".
	Flatten        bool       `yaml:"flatten"`     // Directory mode: write <out>/<basename> instead of mirroring.
	SkipBinary     bool       `yaml:"skip_binary"` // Directory mode: skip files with unexplained NUL bytes. Default: true.
	DryRun         bool       `yaml:"dry_run"`

	// Display and logging.
	ShowStats    bool      `yaml:"stat"`
	ShowProgress bool      `yaml:"progress"` // Default: true (only drawn on a TTY).
	Verbose      bool      `yaml:"verbose"`
	ColorMode    ColorMode `yaml:"color"`    // Default: "auto".
	LogFile      string    `yaml:"log_file"` // Optional log file path.
	CheckOnly    bool      `yaml:"-"`        // Run --check diagnostics and exit.
	Analyze      bool      `yaml:"-"`        // Print a per-file duplication report; write nothing.

	// ConfigFile is the YAML file the settings were read from, if any.
	ConfigFile string `yaml:"-"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		LineEnding:   LineEndingLF,
		SkipBinary:   true,
		ShowProgress: true,
		ColorMode:    ColorAuto,
	}
}

// Mode reports whether a single file or a directory tree is processed.
func (c *Config) Mode() Mode {
	if c.InputDir != "" {
		return ModeDirectory
	}
	return ModeFile
}

// ToStdout reports whether deduplicated text goes to stdout.
func (c *Config) ToStdout() bool { return c.Output == "" }

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and that exactly one input was given.
func (c *Config) Validate() error {
	switch c.LineEnding {
	case LineEndingLF, LineEndingCRLF:
		// valid
	default:
		return errors.New("invalid line ending (use 'lf' or 'crlf')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	for _, p := range c.IgnorePatterns {
		if strings.TrimSpace(p) == "" {
			return errors.New("ignore pattern must not be empty")
		}
	}

	if c.InputFile != "" && c.InputDir != "" {
		return errors.New("specify either an input file or --directory, not both")
	}
	if c.InputFile == "" && c.InputDir == "" {
		return errors.New("you must specify an input file or a directory with -d")
	}
	return nil
}

// ValidatePaths ensures that in directory mode the resolved output root is
// not inside (or equal to) the resolved input root, which would make the
// walk rediscover its own output. Both arguments must be absolute,
// symlink-resolved paths. Single-file mode may write in place.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	if c.Mode() != ModeDirectory || outputAbs == "" {
		return nil
	}
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}
