package config

// This file registers CLI flags on a pflag.FlagSet (the cobra root command's).
// Flags are grouped into input, processing, and display.
// Negated flags (e.g. --no-progress) are applied after parsing so Config
// values from defaults, the config file, and the environment hold unless set.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flags holds boolean flags that are applied after parsing. They either
// invert a default (noProgress -> ShowProgress=false) or pick a color mode.
type Flags struct {
	noProgress   bool
	noSkipBinary bool
	forceColor   bool
	noColor      bool
	configPath   string // read earlier by ConfigPath; registered so parsing accepts it
}

// BindFlags registers every flag on fs, using the current cfg values as
// defaults, and returns the post-parse values to hand to [Flags.Apply].
func BindFlags(fs *pflag.FlagSet, cfg *Config) *Flags {
	var n Flags
	defineInputFlags(fs, cfg, &n)
	defineProcessingFlags(fs, cfg, &n)
	defineDisplayFlags(fs, cfg, &n)
	return &n
}

// defineInputFlags registers -d/--directory, -o/--output, --ignore, --config.
func defineInputFlags(fs *pflag.FlagSet, cfg *Config, n *Flags) {
	fs.StringVarP(&cfg.InputDir, "directory", "d", cfg.InputDir, "Directory to process; every file found is deduplicated")
	fs.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output file, or output root with -d (default: stdout)")
	fs.StringArrayVar(&cfg.IgnorePatterns, "ignore", cfg.IgnorePatterns, "Glob of files/directories to ignore; repeatable")
	fs.StringVar(&n.configPath, "config", "", "Read settings from a YAML file")
}

// defineProcessingFlags registers --encoding, --line-ending, --flatten, --dry-run, --no-skip-binary.
func defineProcessingFlags(fs *pflag.FlagSet, cfg *Config, n *Flags) {
	fs.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "Force input encoding (e.g. utf-8, utf-16le, latin1); default: detect")
	fs.Var(&lineEndingValue{&cfg.LineEnding}, "line-ending", "Output line terminator: lf | crlf")
	fs.BoolVar(&cfg.Flatten, "flatten", cfg.Flatten, "With -d, write <output>/<name> instead of mirroring the tree")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "n", cfg.DryRun, "Report what would change; write nothing")
	fs.BoolVar(&n.noSkipBinary, "no-skip-binary", false, "With -d, also process files that look binary")
}

// defineDisplayFlags registers --stat, progress, color, verbose, --log, --check, --analyze.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config, n *Flags) {
	fs.BoolVar(&cfg.ShowStats, "stat", cfg.ShowStats, "Show execution statistics")
	fs.BoolVar(&cfg.ShowProgress, "progress", cfg.ShowProgress, "Show a progress bar on a terminal")
	fs.BoolVar(&n.noProgress, "no-progress", false, "Never show a progress bar")
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")
	fs.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "Append logs to file")
	fs.BoolVarP(&cfg.CheckOnly, "check", "c", false, "Run diagnostics on the inputs and exit")
	fs.BoolVarP(&cfg.Analyze, "analyze", "a", false, "Print a per-file duplication report and exit")
}

// Apply copies negated flag values into cfg and takes the input file from
// the positional arguments.
func (n *Flags) Apply(cfg *Config, args []string) error {
	if n.noProgress {
		cfg.ShowProgress = false
	}
	if n.noSkipBinary {
		cfg.SkipBinary = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
	if cfg.InputDir != "" {
		cfg.InputDir = NormalizeDirArg(cfg.InputDir)
	}
	return parsePositionalArgs(cfg, args)
}

// parsePositionalArgs sets InputFile from the single optional positional arg.
func parsePositionalArgs(cfg *Config, args []string) error {
	switch len(args) {
	case 0:
		return nil
	case 1:
		if cfg.InputDir != "" {
			return errors.New("specify either an input file or --directory, not both")
		}
		cfg.InputFile = args[0]
		return nil
	}
	return fmt.Errorf("expected at most one input file, got %d", len(args))
}

// pflag.Value adapter so the LineEnding enum can be used with fs.Var.

type lineEndingValue struct{ p *LineEnding }

func (l *lineEndingValue) String() string { return string(*l.p) }
func (l *lineEndingValue) Type() string   { return "lf|crlf" }
func (l *lineEndingValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "lf":
		*l.p = LineEndingLF
	case "crlf":
		*l.p = LineEndingCRLF
	default:
		return fmt.Errorf("invalid line ending %q (use 'lf' or 'crlf')", s)
	}
	return nil
}
