package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/backmassage/dedupe/internal/config"
	"github.com/backmassage/dedupe/internal/display"
	"github.com/backmassage/dedupe/internal/logging"
	"github.com/backmassage/dedupe/internal/naming"
	"github.com/backmassage/dedupe/internal/term"
)

// job is one input and the path its output goes to ("" = stdout).
type job struct {
	input string
	dest  string
}

// Run is the top-level entry point. It processes cfg.InputFile, or every file
// discovered under cfg.InputDir, sequentially and returns aggregate stats.
// Deduplicated text bound for stdout is written to stdout. Cancellation is
// checked between files, never inside one.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, stdout io.Writer) RunStats {
	start := time.Now()
	var stats RunStats

	opts, err := NewOptions(cfg, stdout)
	if err != nil {
		log.Error("%v", err)
		stats.Failed++
		return stats
	}

	jobs, err := planJobs(cfg, log)
	if err != nil {
		log.Error("%v", err)
		stats.Failed++
		return stats
	}
	stats.Total = len(jobs)
	if cfg.Mode() == config.ModeDirectory {
		log.Info("Found %d files to process in directory.", stats.Total)
	}

	if !cfg.ToStdout() && !cfg.DryRun {
		root := cfg.Output
		if cfg.Mode() == config.ModeFile {
			root = filepath.Dir(cfg.Output)
		}
		unlock, err := lockOutput(ctx, root)
		if err != nil {
			log.Error("%v", err)
			stats.Failed++
			return stats
		}
		defer unlock()
	}

	showBar := cfg.ShowProgress && cfg.Mode() == config.ModeDirectory &&
		!cfg.Verbose && !cfg.ShowStats && isTerminal(log.Writer())
	bar := display.NewProgress(log.Writer(), stats.Total, showBar)

	for i, j := range jobs {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		stats.Current = i + 1
		processJob(ctx, cfg, log, j, opts, &stats)
		bar.Step(filepath.Base(j.input))
	}
	bar.Finish()

	stats.Elapsed = time.Since(start)
	logSummary(cfg, log, &stats)
	return stats
}

// planJobs lists the inputs of this run and resolves each output path.
func planJobs(cfg *config.Config, log *logging.Logger) ([]job, error) {
	if cfg.Mode() == config.ModeFile {
		return []job{{input: cfg.InputFile, dest: cfg.Output}}, nil
	}

	rules, err := CompileIgnore(cfg.IgnorePatterns)
	if err != nil {
		return nil, err
	}
	files, err := Discover(cfg.InputDir, rules, func(path string, err error) {
		log.Warn("Skip (unreadable): %s: %v", path, err)
	})
	if err != nil {
		return nil, err
	}

	jobs := make([]job, 0, len(files))
	if cfg.ToStdout() {
		for _, f := range files {
			jobs = append(jobs, job{input: f})
		}
		return jobs, nil
	}

	claims := naming.NewCollisions()
	for _, f := range files {
		want, err := naming.OutputPath(cfg.InputDir, f, cfg.Output, cfg.Flatten)
		if err != nil {
			return nil, err
		}
		dest, renamed := claims.Claim(f, want)
		if renamed {
			log.Warn("Output name taken, writing %s as %s", f, filepath.Base(dest))
		}
		jobs = append(jobs, job{input: f, dest: dest})
	}
	return jobs, nil
}

// processJob runs one file and folds the outcome into stats.
func processJob(ctx context.Context, cfg *config.Config, log *logging.Logger, j job, opts Options, stats *RunStats) {
	log.Debug(cfg.Verbose, "[%d/%d] %s", stats.Current, stats.Total, j.input)

	fr, err := ProcessFile(ctx, j.input, j.dest, opts)
	switch {
	case errors.Is(err, ErrBinary):
		log.Warn("Skip (binary): %s", j.input)
		stats.Skipped++
		return
	case err != nil:
		log.Error("Error processing file %s: %v", j.input, err)
		stats.Failed++
		return
	}
	stats.record(fr)

	log.Debug(cfg.Verbose, "  encoding: %s (%s)", fr.Detection.Charset, fr.Detection.Reason)
	if j.dest != "" {
		log.Debug(cfg.Verbose, "  -> %s", j.dest)
	}
	if cfg.DryRun {
		log.Success("[DRY] Would remove %d duplicate lines from %s", fr.Stats.DuplicatesRemoved, j.input)
	}
	if cfg.ShowStats {
		display.PrintStats(log.Writer(), "Stats for "+j.input+":", fr.Stats)
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	if cfg.ShowStats {
		display.PrintStats(log.Writer(), "--- Total Execution Stats ---", stats.Lines)
		log.Info("Files: %d processed, %d skipped, %d failed", stats.Processed, stats.Skipped, stats.Failed)
		saved := stats.BytesSaved()
		if saved >= 0 {
			log.Info("Bytes: %s -> %s (%s saved)",
				display.FormatBytes(stats.TotalInputBytes),
				display.FormatBytes(stats.TotalOutputBytes),
				display.FormatBytes(saved))
		} else {
			log.Info("Bytes: %s -> %s (%s larger)",
				display.FormatBytes(stats.TotalInputBytes),
				display.FormatBytes(stats.TotalOutputBytes),
				display.FormatBytesWithSign(-saved))
		}
		log.Info("Wall time: %s", display.FormatDuration(stats.Elapsed))
	}

	if cfg.Mode() != config.ModeDirectory {
		return
	}
	switch {
	case stats.Failed > 0:
		log.Warn("Done: %d processed, %d skipped, %d failed", stats.Processed, stats.Skipped, stats.Failed)
	default:
		log.Success("Done: %d processed, %d skipped, %d duplicate lines removed",
			stats.Processed, stats.Skipped, stats.Lines.DuplicatesRemoved)
	}
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f)
}
