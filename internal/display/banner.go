package display

import (
	"fmt"
	"io"

	"github.com/backmassage/dedupe/internal/term"
)

// PrintBanner writes the one-line program banner to w.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprintln(w, term.Magenta.Sprint("dedupe")+" "+term.Gray.Sprint("v"+version)+": remove duplicate lines, any encoding")
}
