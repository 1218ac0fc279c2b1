// Package dedup removes repeated lines from decoded text. First occurrence
// wins and output order follows input order. Lines are compared byte for byte
// after their terminator is stripped: no trimming, no case folding.
//
// Every call owns its SeenSet, so callers may deduplicate different files
// from different goroutines without coordination.
package dedup
