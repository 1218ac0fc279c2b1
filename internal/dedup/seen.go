package dedup

// SeenSet records the lines already emitted for one file.
type SeenSet struct {
	lines map[string]struct{}
}

// NewSeenSet returns an empty set sized for about n lines.
func NewSeenSet(n int) *SeenSet {
	return &SeenSet{lines: make(map[string]struct{}, n)}
}

// Add inserts line and reports whether it was not already present.
func (s *SeenSet) Add(line string) bool {
	if _, ok := s.lines[line]; ok {
		return false
	}
	s.lines[line] = struct{}{}
	return true
}

// Len returns the number of distinct lines seen.
func (s *SeenSet) Len() int { return len(s.lines) }
