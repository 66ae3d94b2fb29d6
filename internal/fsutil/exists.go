// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Exists reports whether a file or directory exists at path. A missing path is
// not an error; any other stat failure (permissions, I/O) is returned.
func Exists(path string) (bool, error) {
	if path == "" {
		panic("path must not be empty")
	}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("error accessing path %s: %w", path, err)
	}
}
