package dedup

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// LineEnding is the terminator written after every output line.
type LineEnding string

const (
	LF   LineEnding = "\n"
	CRLF LineEnding = "\r\n"
)

// ParseLineEnding maps "lf" / "crlf" (case-insensitive) to a LineEnding.
func ParseLineEnding(s string) (LineEnding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lf", "":
		return LF, nil
	case "crlf":
		return CRLF, nil
	}
	return "", fmt.Errorf("invalid line ending %q (use 'lf' or 'crlf')", s)
}

// Name returns the flag spelling of e.
func (e LineEnding) Name() string {
	if e == CRLF {
		return "crlf"
	}
	return "lf"
}

// Result is the unique lines of one input, in first-occurrence order.
type Result struct {
	Lines []string
	Stats Stats
}

// Deduplicate splits text into lines and drops every repeat.
func Deduplicate(text string) Result {
	start := time.Now()
	r := DeduplicateLines(SplitLines(text))
	r.Stats.Elapsed = time.Since(start)
	return r
}

// DeduplicateLines drops every repeat from lines in one pass. The input
// slice is not modified.
func DeduplicateLines(lines []string) Result {
	start := time.Now()
	seen := NewSeenSet(len(lines))
	out := make([]string, 0, len(lines))
	var st Stats
	for _, line := range lines {
		st.LinesRead++
		if !seen.Add(line) {
			st.DuplicatesRemoved++
			continue
		}
		out = append(out, line)
		st.LinesWritten++
	}
	st.Elapsed = time.Since(start)
	return Result{Lines: out, Stats: st}
}

// Text joins the lines, each followed by ending. An empty result is "".
func (r Result) Text(ending LineEnding) string {
	var sb strings.Builder
	_, _ = r.Write(&sb, ending)
	return sb.String()
}

// Size returns the byte length of Text(ending) without building it.
func (r Result) Size(ending LineEnding) int64 {
	if ending == "" {
		ending = LF
	}
	n := int64(len(r.Lines) * len(ending))
	for _, l := range r.Lines {
		n += int64(len(l))
	}
	return n
}

// Write writes every line followed by ending to w through a buffer.
func (r Result) Write(w io.Writer, ending LineEnding) (int64, error) {
	if ending == "" {
		ending = LF
	}
	bw := bufio.NewWriter(w)
	var n int64
	for _, l := range r.Lines {
		k, err := bw.WriteString(l)
		n += int64(k)
		if err != nil {
			return n, err
		}
		k, err = bw.WriteString(string(ending))
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("flush output: %w", err)
	}
	return n, nil
}
