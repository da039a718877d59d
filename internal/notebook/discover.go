// Package notebook finds notebook files under a directory tree and decides
// which of them are eligible for automated execution.
package notebook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// DefaultRoot is the conventional notebook directory, relative to the
// repository root.
const DefaultRoot = "notebooks"

const (
	notebookExt = ".py"
	initFile    = "__init__.py"
)

// Discover returns every notebook file below root, sorted lexicographically.
// A root that does not exist yields an empty result rather than an error.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat notebook root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("notebook root %s is not a directory", root)
	}

	notebooks := []string{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsNotebook(path) {
			return nil
		}
		notebooks = append(notebooks, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk notebook root %s: %w", root, err)
	}

	slices.Sort(notebooks)
	return notebooks, nil
}

// IsNotebook reports whether path follows the notebook naming convention.
func IsNotebook(path string) bool {
	name := filepath.Base(path)
	return filepath.Ext(name) == notebookExt && name != initFile
}
