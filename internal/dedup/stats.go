package dedup

import "time"

// Stats counts what one deduplication pass did.
// LinesRead == DuplicatesRemoved + LinesWritten always holds.
type Stats struct {
	LinesRead         int
	DuplicatesRemoved int
	LinesWritten      int
	Elapsed           time.Duration
}

// Add folds o into s, for batch totals.
func (s *Stats) Add(o Stats) {
	s.LinesRead += o.LinesRead
	s.DuplicatesRemoved += o.DuplicatesRemoved
	s.LinesWritten += o.LinesWritten
	s.Elapsed += o.Elapsed
}
