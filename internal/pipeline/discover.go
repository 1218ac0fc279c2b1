package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
)

// walkDir is filepath.WalkDir; tests swap it to inject walk errors.
var walkDir = filepath.WalkDir

// Discover walks root and returns every regular file not matched by rules,
// sorted lexicographically for a deterministic processing order. Hidden
// files are included. Ignored directories are pruned. Symlinks and other
// non-regular entries are left out, as is the output lock file.
//
// An entry that cannot be read is reported to onSkip (which may be nil) and
// the walk continues; an unreadable directory is pruned. Only an error on
// root itself is returned.
func Discover(root string, rules *IgnoreRules, onSkip func(path string, err error)) ([]string, error) {
	var files []string
	err := walkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if onSkip != nil {
				onSkip(path, err)
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rules.Match(filepath.ToSlash(rel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() || d.Name() == lockName {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
