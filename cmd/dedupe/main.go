// Command dedupe removes duplicate lines from a text file, or from every file
// under a directory, keeping the first occurrence of each line. Input in
// UTF-8, UTF-16, UTF-32 or a legacy single-byte encoding is normalized to
// UTF-8 first.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/dedupe/internal/check"
	"github.com/backmassage/dedupe/internal/config"
	"github.com/backmassage/dedupe/internal/display"
	"github.com/backmassage/dedupe/internal/logging"
	"github.com/backmassage/dedupe/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Phase 1: Bootstrap. Settings layer defaults < config file < env < flags;
	// the file and env are applied before the flags are bound so that they
	// become the flag defaults.
	cfg := config.DefaultConfig()
	if path := config.ConfigPath(args); path != "" {
		if err := config.LoadFile(path, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "dedupe: %v\n", err)
			return 1
		}
	}
	if err := config.ApplyEnv(&cfg, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "dedupe: %v\n", err)
		return 1
	}

	code := 0
	cmd := newRootCmd(&cfg, &code)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dedupe: %v\n", err)
		return 1
	}
	return code
}

// newRootCmd builds the single cobra command. Usage and validation errors are
// returned from RunE; the exit code of a completed run is stored in *code.
func newRootCmd(cfg *config.Config, code *int) *cobra.Command {
	var flags *config.Flags
	cmd := &cobra.Command{
		Use:   "dedupe [FILE]",
		Short: "Remove duplicate lines from text files",
		Long: `Remove duplicate lines from a text file or a directory of text files.

The first occurrence of every line is kept, in order. Input encoding is
detected (UTF-8, UTF-16, UTF-32 with or without a byte-order mark, otherwise
Windows-1252) and output is always UTF-8.

Without -o the result is written to stdout and logs go to stderr.`,
		Example: `  dedupe words.txt -o words.uniq.txt
  dedupe -d ./logs -o ./logs-clean --ignore '*.gz' --stat
  dedupe --check -d ./logs`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.Apply(cfg, args); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			*code = execute(cfg)
			return nil
		},
	}
	flags = config.BindFlags(cmd.Flags(), cfg)
	cmd.Flags().SortFlags = false
	return cmd
}

// execute runs a validated configuration and returns the exit code.
func execute(cfg *config.Config) int {
	log, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dedupe: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available. All output goes through log from here on.
	chatty := !cfg.ToStdout() || cfg.Verbose || cfg.CheckOnly || cfg.Analyze
	if chatty {
		display.PrintBanner(log.Writer(), version)
	}
	if cfg.ConfigFile != "" {
		log.Debug(cfg.Verbose, "Config: %s", cfg.ConfigFile)
	}

	if cfg.CheckOnly {
		if !check.RunCheck(cfg, log) {
			return 1
		}
		return 0
	}

	if err := check.CheckInputs(cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Output must not be inside the input tree, or the walk would pick up
	// its own results.
	if cfg.Mode() == config.ModeDirectory && !cfg.ToStdout() {
		inputAbs, err := absPath(cfg.InputDir)
		if err != nil {
			log.Error("Cannot resolve input path: %s", cfg.InputDir)
			return 1
		}
		outputAbs, err := absPath(cfg.Output)
		if err != nil {
			log.Error("Cannot resolve output path: %s", cfg.Output)
			return 1
		}
		if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
			log.Error("%v", err)
			log.Error("Choose an output path outside: %s", cfg.InputDir)
			return 1
		}
	}

	// Phase 3: Signal handling. Cancel on SIGINT/SIGTERM so the run stops
	// between files and never leaves a partial output.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, finishing current file…")
			cancel()
		case <-ctx.Done():
		}
	}()

	if cfg.Analyze {
		stats := pipeline.Analyze(ctx, cfg, log, os.Stdout)
		if stats.Failed > 0 || ctx.Err() != nil {
			return 1
		}
		return 0
	}

	if chatty {
		in := cfg.InputFile
		if cfg.Mode() == config.ModeDirectory {
			in = cfg.InputDir
		}
		out := cfg.Output
		if cfg.ToStdout() {
			out = "(stdout)"
		}
		log.Info("In:  %s", in)
		log.Info("Out: %s", out)
		if cfg.DryRun {
			log.Warn("DRY RUN: no files will be written")
		}
	}

	// Phase 4: Run (discover → decode → dedupe → write).
	stats := pipeline.Run(ctx, cfg, log, os.Stdout)
	if stats.Failed > 0 || ctx.Err() != nil {
		return 1
	}
	return 0
}

// absPath returns the absolute, symlink-resolved path for safe comparison of
// input vs output hierarchies. A path that does not exist yet is resolved
// through its nearest existing ancestor.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	var tail []string
	for {
		resolved, err := filepath.EvalSymlinks(abs)
		if err == nil {
			return filepath.Join(append([]string{resolved}, tail...)...), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", err
		}
		tail = append([]string{filepath.Base(abs)}, tail...)
		abs = parent
	}
}
