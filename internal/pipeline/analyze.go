package pipeline

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/backmassage/dedupe/internal/charset"
	"github.com/backmassage/dedupe/internal/config"
	"github.com/backmassage/dedupe/internal/display"
	"github.com/backmassage/dedupe/internal/logging"
	"github.com/backmassage/dedupe/internal/term"
)

// fileRow holds the per-file data for the analysis table.
type fileRow struct {
	Name     string
	Encoding charset.Charset
	Lines    int
	Dups     int
	Bytes    int64
}

// dupPct is the share of lines that are repeats, 0..100.
func (r fileRow) dupPct() float64 {
	if r.Lines == 0 {
		return 0
	}
	return float64(r.Dups) * 100 / float64(r.Lines)
}

// Analyze decodes and deduplicates every input without writing anything and
// prints a table of encoding, line counts and duplicate share to w, with
// files whose duplicate share is a statistical outlier highlighted.
func Analyze(ctx context.Context, cfg *config.Config, log *logging.Logger, w io.Writer) RunStats {
	var stats RunStats

	opts, err := NewOptions(cfg, io.Discard)
	if err != nil {
		log.Error("%v", err)
		stats.Failed++
		return stats
	}
	jobs, err := planJobs(&config.Config{
		InputFile:      cfg.InputFile,
		InputDir:       cfg.InputDir,
		IgnorePatterns: cfg.IgnorePatterns,
	}, log)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		stats.Failed++
		return stats
	}
	if len(jobs) == 0 {
		log.Warn("No files found in %s", cfg.InputDir)
		return stats
	}

	stats.Total = len(jobs)
	log.Info("Analyzing %d files …", stats.Total)

	root := cfg.InputDir
	bar := display.NewProgress(log.Writer(), stats.Total, cfg.ShowProgress && isTerminal(log.Writer()))
	var rows []fileRow
	var pcts []float64

	for i, j := range jobs {
		if ctx.Err() != nil {
			bar.Finish()
			log.Warn("Interrupted")
			return stats
		}
		stats.Current = i + 1
		bar.Step(filepath.Base(j.input))

		raw, err := os.ReadFile(j.input)
		if err != nil {
			stats.Failed++
			log.Warn("Skip (unreadable): %s: %v", j.input, err)
			continue
		}
		if opts.SkipBinary && charset.LooksBinary(raw, detectFor(raw, opts)) {
			stats.Skipped++
			continue
		}
		fr := ProcessBytes(raw, opts)
		stats.record(fr)

		row := fileRow{
			Name:     displayName(root, j.input),
			Encoding: fr.Detection.Charset,
			Lines:    fr.Stats.LinesRead,
			Dups:     fr.Stats.DuplicatesRemoved,
			Bytes:    fr.InputBytes,
		}
		rows = append(rows, row)
		if row.Lines > 0 {
			pcts = append(pcts, row.dupPct())
		}
	}
	bar.Finish()

	if len(rows) == 0 {
		log.Warn("No text files could be read")
		return stats
	}

	b := computeStats(pcts)
	printAnalysisTable(w, rows, b)
	printAnalysisSummary(log, rows, b, &stats)
	return stats
}

// displayName is path relative to root, or the base name in file mode.
func displayName(root, path string) string {
	if root == "" {
		return filepath.Base(path)
	}
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

// truncateLeft keeps the tail of s, prefixed with "…", so that the kept
// part is at most width-1 bytes. The cut lands on a rune boundary.
func truncateLeft(s string, width int) string {
	if len(s) <= width {
		return s
	}
	i := len(s) - max(width-1, 0)
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return "…" + s[i:]
}

// iqrBounds holds the IQR-based thresholds for outlier classification.
type iqrBounds struct {
	q1, q3    float64
	outlierLo float64 // Q1 - 1.5*IQR
	outlierHi float64 // Q3 + 1.5*IQR
	extremeLo float64 // Q1 - 3.0*IQR
	extremeHi float64 // Q3 + 3.0*IQR
	valid     bool
}

func computeStats(vals []float64) iqrBounds {
	if len(vals) < 4 {
		return iqrBounds{}
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	q1 := percentile(sorted, 25)
	q3 := percentile(sorted, 75)
	iqr := q3 - q1

	return iqrBounds{
		q1:        q1,
		q3:        q3,
		outlierLo: q1 - 1.5*iqr,
		outlierHi: q3 + 1.5*iqr,
		extremeLo: q1 - 3.0*iqr,
		extremeHi: q3 + 3.0*iqr,
		valid:     iqr > 0,
	}
}

// classify returns "" (normal), "outlier", or "extreme" for a value.
func (b *iqrBounds) classify(v float64) string {
	if !b.valid {
		return ""
	}
	if v < b.extremeLo || v > b.extremeHi {
		return "extreme"
	}
	if v < b.outlierLo || v > b.outlierHi {
		return "outlier"
	}
	return ""
}

func printAnalysisTable(w io.Writer, rows []fileRow, b iqrBounds) {
	nameW := len("File")
	encW := len("Encoding")
	sizeW := len("Size")
	linesW := len("Lines")
	dupW := len("Duplicates")
	pctW := len("Dup %")

	for _, r := range rows {
		nameW = max(nameW, len(r.Name))
		encW = max(encW, len(r.Encoding))
		sizeW = max(sizeW, len(display.FormatBytes(r.Bytes)))
		linesW = max(linesW, len(fmt.Sprint(r.Lines)))
		dupW = max(dupW, len(fmt.Sprint(r.Dups)))
	}
	nameW = min(nameW, 50)

	header := fmt.Sprintf("  %-*s  %-*s  %*s  %*s  %*s  %*s",
		nameW, "File",
		encW, "Encoding",
		sizeW, "Size",
		linesW, "Lines",
		dupW, "Duplicates",
		pctW, "Dup %",
	)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, "  "+strings.Repeat("─", len(header)-2))

	for _, r := range rows {
		name := truncateLeft(r.Name, nameW)
		class := ""
		if r.Lines > 0 {
			class = b.classify(r.dupPct())
		}
		// Pad the plain text first, then color it, so escape bytes don't
		// count toward the column width.
		pctCell := colorPad(fmt.Sprintf("%.1f%%", r.dupPct()), pctW, class)

		fmt.Fprintf(w, "  %-*s  %-*s  %*s  %*d  %*d  %s  %s\n",
			nameW, name,
			encW, r.Encoding,
			sizeW, display.FormatBytes(r.Bytes),
			linesW, r.Lines,
			dupW, r.Dups,
			pctCell,
			formatFlag(class),
		)
	}
	fmt.Fprintln(w)
}

func printAnalysisSummary(log *logging.Logger, rows []fileRow, b iqrBounds, stats *RunStats) {
	var outliers, extremes int
	for _, r := range rows {
		if r.Lines == 0 {
			continue
		}
		switch b.classify(r.dupPct()) {
		case "extreme":
			extremes++
		case "outlier":
			outliers++
		}
	}

	log.Info("Analyzed %d files (%d skipped, %d unreadable)", len(rows), stats.Skipped, stats.Failed)
	log.Info("  %d of %d lines are duplicates (%s)",
		stats.Lines.DuplicatesRemoved, stats.Lines.LinesRead,
		display.FormatPercent(stats.Lines.DuplicatesRemoved, stats.Lines.LinesRead))
	if b.valid {
		log.Info("  Duplicate share IQR: %.1f%% to %.1f%% (outlier < %.1f%% or > %.1f%%)",
			b.q1, b.q3, b.outlierLo, b.outlierHi)
	}
	if outliers > 0 {
		log.Warn("  %d outlier(s) flagged [*]", outliers)
	}
	if extremes > 0 {
		log.Error("  %d extreme outlier(s) flagged [!]", extremes)
	}
	if b.valid && outliers == 0 && extremes == 0 {
		log.Success("  No outliers detected")
	}
}

func classColor(class string) *color.Color {
	switch class {
	case "extreme":
		return term.Red
	case "outlier":
		return term.Yellow
	}
	return nil
}

func formatFlag(class string) string {
	switch class {
	case "extreme":
		return term.Red.Sprint("[!]")
	case "outlier":
		return term.Yellow.Sprint("[*]")
	}
	return ""
}

// colorPad pads s to width, then wraps it in the class color.
func colorPad(s string, width int, class string) string {
	padded := fmt.Sprintf("%*s", width, s)
	if c := classColor(class); c != nil {
		return c.Sprint(padded)
	}
	return padded
}

// percentile computes the p-th percentile using linear interpolation.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi || hi >= len(sorted) {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
