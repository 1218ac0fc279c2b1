package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when an input path does not lie under its root.
var ErrOutsideRoot = errors.New("input path is outside the input root")

// OutputPath builds the output file path for inputPath, a file found under
// inputRoot.
//
//	mirror:  <outputDir>/<path of inputPath relative to inputRoot>
//	flatten: <outputDir>/<base name of inputPath>
func OutputPath(inputRoot, inputPath, outputDir string, flatten bool) (string, error) {
	if flatten {
		base := filepath.Base(inputPath)
		if base == "." || base == ".." || base == string(filepath.Separator) {
			return "", fmt.Errorf("%w: %s", ErrOutsideRoot, inputPath)
		}
		return filepath.Join(outputDir, base), nil
	}

	rel, err := filepath.Rel(inputRoot, inputPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, inputPath)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, inputPath)
	}
	return filepath.Join(outputDir, rel), nil
}
