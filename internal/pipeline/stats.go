package pipeline

import (
	"time"

	"github.com/backmassage/dedupe/internal/dedup"
)

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Total            int
	Current          int
	Processed        int
	Skipped          int
	Failed           int
	TotalInputBytes  int64
	TotalOutputBytes int64
	Lines            dedup.Stats
	Elapsed          time.Duration
}

// BytesSaved returns the aggregate byte difference between inputs and outputs.
// Positive means outputs are smaller. Decoding legacy encodings to UTF-8 can
// make it negative.
func (s *RunStats) BytesSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}

// record folds one processed file into the totals.
func (s *RunStats) record(r FileResult) {
	s.Processed++
	s.TotalInputBytes += r.InputBytes
	s.TotalOutputBytes += r.OutputBytes
	s.Lines.Add(r.Stats)
}
