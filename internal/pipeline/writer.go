package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/backmassage/dedupe/internal/dedup"
)

// lockName is the advisory lock file taken in the output root for the
// length of a run. Discover never returns it.
const lockName = ".dedupe.lock"

const lockRetry = 50 * time.Millisecond

var lockTimeout = 5 * time.Second

// lockOutput takes an exclusive lock on dir/.dedupe.lock so two runs cannot
// write into the same output root at once. The returned func releases it.
// The lock file stays behind: removing it would let a waiter holding the old
// inode and a new run on a fresh file both believe they own the lock.
func lockOutput(ctx context.Context, dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, lockName)
	fl := flock.New(path)
	lctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(lctx, lockRetry)
	if !locked || err != nil {
		return nil, fmt.Errorf("could not acquire lock on %s: another dedupe run may be writing there", path)
	}
	return func() { _ = fl.Unlock() }, nil
}

// writeAtomic writes r to dest through a temp file in the same directory and
// renames it into place, so readers never see a half-written file and an
// in-place rewrite never truncates its own input. perm is applied to the
// result.
func writeAtomic(dest string, r dedup.Result, ending dedup.LineEnding, perm fs.FileMode) (int64, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return 0, err
	}
	tmpPath := tmp.Name()
	fail := func(err error) (int64, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return 0, err
	}

	n, err := r.Write(tmp, ending)
	if err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return 0, err
	}
	return n, nil
}
