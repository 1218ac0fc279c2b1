package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/backmassage/dedupe/internal/charset"
	"github.com/backmassage/dedupe/internal/config"
	"github.com/backmassage/dedupe/internal/dedup"
)

// ErrBinary is returned by ProcessFile for input that looks binary when
// Options.SkipBinary is set.
var ErrBinary = errors.New("file looks binary")

// Options are the per-file processing settings derived from a Config.
type Options struct {
	Charset    charset.Charset // empty: detect per file
	LineEnding dedup.LineEnding
	DryRun     bool
	SkipBinary bool
	Stdout     io.Writer // destination when dest is ""
}

// NewOptions resolves cfg into Options. It fails only on an unknown
// --encoding label or line ending.
func NewOptions(cfg *config.Config, stdout io.Writer) (Options, error) {
	ending, err := dedup.ParseLineEnding(string(cfg.LineEnding))
	if err != nil {
		return Options{}, err
	}
	opts := Options{
		LineEnding: ending,
		DryRun:     cfg.DryRun,
		SkipBinary: cfg.SkipBinary && cfg.Mode() == config.ModeDirectory,
		Stdout:     stdout,
	}
	if cfg.Encoding != "" {
		cs, err := charset.Lookup(cfg.Encoding)
		if err != nil {
			return Options{}, err
		}
		opts.Charset = cs
	}
	return opts, nil
}

// FileResult is the outcome of processing one input.
type FileResult struct {
	dedup.Result
	Detection   charset.Detection
	InputBytes  int64
	OutputBytes int64 // bytes written, or that would be written on a dry run
}

// ProcessBytes decodes raw, deduplicates its lines and sizes the output.
// It never fails: undecodable bytes become U+FFFD.
func ProcessBytes(raw []byte, opts Options) FileResult {
	var (
		text string
		det  charset.Detection
	)
	if opts.Charset != "" {
		var err error
		text, det, err = charset.DecodeWith(raw, string(opts.Charset))
		if err != nil {
			text, det = charset.Decode(raw)
		}
	} else {
		text, det = charset.Decode(raw)
	}
	res := dedup.Deduplicate(text)
	return FileResult{
		Result:      res,
		Detection:   det,
		InputBytes:  int64(len(raw)),
		OutputBytes: res.Size(opts.LineEnding),
	}
}

// ProcessFile deduplicates the file at path into dest. An empty dest writes
// to opts.Stdout. dest may equal path; the rewrite is atomic. On a dry run
// nothing is written.
func ProcessFile(ctx context.Context, path, dest string, opts Options) (FileResult, error) {
	if err := ctx.Err(); err != nil {
		return FileResult{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("stat input: %w", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("read input: %w", err)
	}
	if opts.SkipBinary && charset.LooksBinary(raw, detectFor(raw, opts)) {
		return FileResult{InputBytes: int64(len(raw))}, ErrBinary
	}

	fr := ProcessBytes(raw, opts)
	if opts.DryRun {
		return fr, nil
	}

	if dest == "" {
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		n, err := fr.Write(out, opts.LineEnding)
		fr.OutputBytes = n
		if err != nil {
			return fr, fmt.Errorf("write stdout: %w", err)
		}
		return fr, nil
	}

	n, err := writeAtomic(dest, fr.Result, opts.LineEnding, info.Mode().Perm())
	fr.OutputBytes = n
	if err != nil {
		return fr, fmt.Errorf("write %s: %w", dest, err)
	}
	return fr, nil
}

// detectFor returns the detection the binary check should judge raw by: the
// forced charset when one is set, otherwise the sniffed one.
func detectFor(raw []byte, opts Options) charset.Detection {
	if opts.Charset != "" {
		return charset.Detection{Charset: opts.Charset, Reason: charset.ReasonForced}
	}
	return charset.Detect(raw)
}
