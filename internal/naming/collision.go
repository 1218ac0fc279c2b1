package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Collisions hands out output paths so that no two inputs write the same
// file. Flattening a tree makes "a/notes.txt" and "b/notes.txt" compete for
// one name; the first claimant keeps it and later ones get " - dupN".
// All methods are goroutine-safe.
type Collisions struct {
	mu     sync.Mutex
	owners map[string]string // output path → input that claimed it
	next   map[string]int    // requested path → next dup counter to try
}

// NewCollisions creates an empty claim table.
func NewCollisions() *Collisions {
	return &Collisions{
		owners: make(map[string]string),
		next:   make(map[string]int),
	}
}

// Claim returns the output path input should write to and whether it had to
// be renamed. Claiming the same path twice for the same input is stable.
func (c *Collisions) Claim(input, requested string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if owner, taken := c.owners[requested]; !taken || owner == input {
		c.owners[requested] = input
		return requested, false
	}

	n := max(c.next[requested], 1)
	for ; ; n++ {
		candidate := dupName(requested, n)
		if owner, taken := c.owners[candidate]; !taken || owner == input {
			c.owners[candidate] = input
			c.next[requested] = n + 1
			return candidate, true
		}
	}
}

// dupName turns "dir/stem.ext" into "dir/stem - dupN.ext".
func dupName(path string, n int) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	return filepath.Join(filepath.Dir(path), fmt.Sprintf("%s - dup%d%s", stem, n, ext))
}
