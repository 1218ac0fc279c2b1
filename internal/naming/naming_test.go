package naming

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func TestOutputPath(t *testing.T) {
	root := filepath.FromSlash("/data/in")
	out := filepath.FromSlash("/data/out")
	tests := []struct {
		name    string
		input   string
		flatten bool
		want    string
		wantErr bool
	}{
		{"top-level mirror", "/data/in/a.txt", false, "/data/out/a.txt", false},
		{"nested mirror", "/data/in/x/y/b.log", false, "/data/out/x/y/b.log", false},
		{"nested flatten", "/data/in/x/y/b.log", true, "/data/out/b.log", false},
		{"hidden file kept", "/data/in/.env", false, "/data/out/.env", false},
		{"outside root", "/data/other/c.txt", false, "", true},
		{"root itself", "/data/in", false, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OutputPath(root, filepath.FromSlash(tt.input), out, tt.flatten)
			if tt.wantErr {
				if !errors.Is(err, ErrOutsideRoot) {
					t.Errorf("err = %v, want ErrOutsideRoot", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("OutputPath: %v", err)
			}
			if want := filepath.FromSlash(tt.want); got != want {
				t.Errorf("OutputPath(%q) = %q, want %q", tt.input, got, want)
			}
		})
	}
}

func TestCollisions_Claim(t *testing.T) {
	c := NewCollisions()
	req := filepath.FromSlash("/out/notes.txt")

	got, renamed := c.Claim("a/notes.txt", req)
	if got != req || renamed {
		t.Fatalf("first claim = %q, %v", got, renamed)
	}
	got, renamed = c.Claim("a/notes.txt", req)
	if got != req || renamed {
		t.Errorf("re-claim by owner = %q, %v; want stable", got, renamed)
	}
	got, renamed = c.Claim("b/notes.txt", req)
	if want := filepath.FromSlash("/out/notes - dup1.txt"); got != want || !renamed {
		t.Errorf("second claimant = %q, %v; want %q", got, renamed, want)
	}
	got, _ = c.Claim("c/notes.txt", req)
	if want := filepath.FromSlash("/out/notes - dup2.txt"); got != want {
		t.Errorf("third claimant = %q, want %q", got, want)
	}
}

func TestCollisions_NoExtension(t *testing.T) {
	c := NewCollisions()
	req := filepath.FromSlash("/out/Makefile")
	c.Claim("a", req)
	got, _ := c.Claim("b", req)
	if want := filepath.FromSlash("/out/Makefile - dup1"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCollisions_Concurrent(t *testing.T) {
	c := NewCollisions()
	req := filepath.FromSlash("/out/x.txt")
	var wg sync.WaitGroup
	results := make([]string, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Claim(filepath.Join("in", string(rune('a'+i%26)), string(rune('A'+i/26))), req)
		}(i)
	}
	wg.Wait()
	seen := map[string]bool{}
	for _, r := range results {
		if seen[r] {
			t.Fatalf("path %q handed out twice", r)
		}
		seen[r] = true
	}
}
