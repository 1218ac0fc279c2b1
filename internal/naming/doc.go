// Package naming maps input files to output paths: mirroring the input tree
// under the output root, or flattening it to base names, with in-run
// collision resolution for the flattened case.
//
// Functions:
//   - OutputPath(inputRoot, inputPath, outputDir, flatten) → (string, error)
//   - (*Collisions).Claim(input, requested) → (string, bool)
//     Owner map plus per-path counter; a second claimant gets " - dupN".
package naming
