// Package check provides input diagnostics (--check mode) and pre-run
// validation (CheckInputs) for paths, ignore patterns, and encodings.
package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/dedupe/internal/charset"
	"github.com/backmassage/dedupe/internal/config"
	"github.com/backmassage/dedupe/internal/pipeline"
)

// Sentinel errors returned by CheckInputs.
var (
	ErrInputNotFound    = errors.New("input not found")
	ErrInputKind        = errors.New("input has the wrong kind")
	ErrOutputKind       = errors.New("output has the wrong kind")
	ErrBadIgnorePattern = errors.New("invalid ignore pattern")
	ErrUnknownEncoding  = errors.New("unknown encoding")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the --check flow: input, output, ignore patterns, forced
// encoding and a decoder self-test. It reports every problem rather than
// stopping at the first and returns whether all checks passed.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== Dedupe Check ===")

	ok := checkInput(cfg, log)
	ok = checkOutput(cfg, log) && ok
	ok = checkIgnore(cfg, log) && ok
	ok = checkEncoding(cfg, log) && ok
	ok = checkDecoders(log, cfg.Verbose) && ok

	if ok {
		log.Success("All checks passed")
	} else {
		log.Error("Some checks failed")
	}
	return ok
}

func checkInput(cfg *config.Config, log Logger) bool {
	if err := inputError(cfg); err != nil {
		log.Error("Input: %v", err)
		return false
	}
	if cfg.Mode() == config.ModeDirectory {
		rules, _ := pipeline.CompileIgnore(cfg.IgnorePatterns)
		unreadable := 0
		files, err := pipeline.Discover(cfg.InputDir, rules, func(path string, err error) {
			log.Warn("Input: cannot read %s: %v", path, err)
			unreadable++
		})
		if err != nil {
			log.Error("Input: cannot walk %s: %v", cfg.InputDir, err)
			return false
		}
		if unreadable > 0 {
			log.Warn("Input: %d unreadable entries will be skipped", unreadable)
		}
		log.Success("Input: directory %s (%d files)", cfg.InputDir, len(files))
		return true
	}
	log.Success("Input: file %s", cfg.InputFile)
	return true
}

// checkOutput verifies the output location exists or can be created, and
// that a file can be written there.
func checkOutput(cfg *config.Config, log Logger) bool {
	if cfg.ToStdout() {
		log.Info("Output: stdout")
		return true
	}
	if err := outputError(cfg); err != nil {
		log.Error("Output: %v", err)
		return false
	}

	dir := cfg.Output
	if cfg.Mode() == config.ModeFile {
		dir = filepath.Dir(cfg.Output)
	}
	target := nearestDir(dir)
	f, err := os.CreateTemp(target, ".dedupe-check-*")
	if err != nil {
		log.Error("Output: %s is not writable: %v", target, err)
		return false
	}
	f.Close()
	os.Remove(f.Name())
	log.Success("Output: %s (writable)", cfg.Output)
	return true
}

func checkIgnore(cfg *config.Config, log Logger) bool {
	if len(cfg.IgnorePatterns) == 0 {
		return true
	}
	ok := true
	for _, p := range cfg.IgnorePatterns {
		if _, err := pipeline.CompileIgnore([]string{p}); err != nil {
			log.Error("Ignore: %v", err)
			ok = false
		}
	}
	if ok {
		log.Success("Ignore: %d pattern(s) valid", len(cfg.IgnorePatterns))
	}
	return ok
}

func checkEncoding(cfg *config.Config, log Logger) bool {
	if cfg.Encoding == "" {
		log.Info("Encoding: auto-detect")
		return true
	}
	cs, err := charset.Lookup(cfg.Encoding)
	if err != nil {
		log.Error("Encoding: %v", err)
		return false
	}
	log.Success("Encoding: %s -> %s", cfg.Encoding, cs)
	return true
}

// decoderSamples are "héllo\n" in each encoding the detector can pick.
var decoderSamples = []struct {
	name string
	raw  []byte
}{
	{"utf-8", []byte("h\xc3\xa9llo\n")},
	{"utf-8 bom", []byte("\xef\xbb\xbfh\xc3\xa9llo\n")},
	{"utf-16le bom", []byte("\xff\xfeh\x00\xe9\x00l\x00l\x00o\x00\n\x00")},
	{"utf-16be", []byte("\x00h\x00\xe9\x00l\x00l\x00o\x00\n")},
	{"windows-1252", []byte("h\xe9llo\n")},
}

// checkDecoders decodes a known word in every supported encoding.
func checkDecoders(log Logger, verbose bool) bool {
	ok := true
	for _, s := range decoderSamples {
		text, d := charset.Decode(s.raw)
		if text != "héllo\n" {
			log.Error("Decoder %s: got %q (%s)", s.name, text, d.Charset)
			ok = false
			continue
		}
		log.Debug(verbose, "Decoder %s: %s (%s)", s.name, d.Charset, d.Reason)
	}
	if ok {
		log.Success("Decoders: %d samples round-trip", len(decoderSamples))
	}
	return ok
}

// CheckInputs is the pre-run validation: the input exists and has the kind
// its mode needs, the output is not the wrong kind, every ignore pattern
// compiles, and a forced encoding resolves. Returns a wrapped sentinel.
func CheckInputs(cfg *config.Config) error {
	if err := inputError(cfg); err != nil {
		return err
	}
	if err := outputError(cfg); err != nil {
		return err
	}
	if _, err := pipeline.CompileIgnore(cfg.IgnorePatterns); err != nil {
		return fmt.Errorf("%w: %v", ErrBadIgnorePattern, err)
	}
	if cfg.Encoding != "" {
		if _, err := charset.Lookup(cfg.Encoding); err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownEncoding, cfg.Encoding)
		}
	}
	return nil
}

// --- internal helpers ---

func inputError(cfg *config.Config) error {
	path := cfg.InputFile
	if cfg.Mode() == config.ModeDirectory {
		path = cfg.InputDir
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	switch {
	case cfg.Mode() == config.ModeDirectory && !info.IsDir():
		return fmt.Errorf("%w: %s is not a directory", ErrInputKind, path)
	case cfg.Mode() == config.ModeFile && !info.Mode().IsRegular():
		return fmt.Errorf("%w: %s is not a regular file", ErrInputKind, path)
	}
	return nil
}

func outputError(cfg *config.Config) error {
	if cfg.ToStdout() {
		return nil
	}
	info, err := os.Stat(cfg.Output)
	if err != nil {
		return nil
	}
	switch {
	case cfg.Mode() == config.ModeDirectory && !info.IsDir():
		return fmt.Errorf("%w: %s exists and is not a directory", ErrOutputKind, cfg.Output)
	case cfg.Mode() == config.ModeFile && info.IsDir():
		return fmt.Errorf("%w: %s is a directory", ErrOutputKind, cfg.Output)
	}
	return nil
}

// nearestDir returns dir, or its closest existing ancestor.
func nearestDir(dir string) string {
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
