package display

import (
	"fmt"
	"io"

	"github.com/backmassage/dedupe/internal/dedup"
	"github.com/backmassage/dedupe/internal/term"
)

// PrintStats writes a titled statistics block:
//
//	Stats for notes.txt:
//	  Total lines read: 5
//	  Duplicate lines found: 2 (40.0%)
//	  Lines written: 3
//	  Duration: 1.20ms
func PrintStats(w io.Writer, title string, s dedup.Stats) {
	fmt.Fprintln(w, term.Cyan.Sprint(title))
	fmt.Fprintf(w, "  Total lines read: %d\n", s.LinesRead)
	fmt.Fprintf(w, "  Duplicate lines found: %d (%s)\n", s.DuplicatesRemoved, FormatPercent(s.DuplicatesRemoved, s.LinesRead))
	fmt.Fprintf(w, "  Lines written: %d\n", s.LinesWritten)
	fmt.Fprintf(w, "  Duration: %s\n", FormatDuration(s.Elapsed))
}
