// Package pipeline runs deduplication over one file or a directory tree:
// discover → read → normalize encoding → deduplicate → write, one file at a
// time, with batch totals.
//
// Types:
//   - RunStats (file counts, byte totals, summed line Stats, wall time)
//   - Options / FileResult (per-file inputs and outputs)
//   - IgnoreRules (doublestar globs compiled from --ignore)
//
// Functions:
//   - Run(ctx, cfg, log, stdout) → RunStats
//   - Analyze(ctx, cfg, log, w) → RunStats (report only, nothing written)
//   - ProcessBytes(raw, opts) → FileResult (pure core, never fails)
//   - ProcessFile(ctx, path, dest, opts) → (FileResult, error)
//   - Discover(root, rules, onSkip) → []string
package pipeline
