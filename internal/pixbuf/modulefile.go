package pixbuf

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/specialistvlad/buildcheck/internal/ctxlog"
)

// ModuleFilePattern is the os.CreateTemp pattern of module files, unique per
// invocation so concurrent runs in one directory do not collide.
const ModuleFilePattern = "gdk-pixbuf-*.loaders"

// WithModuleFile writes modules to a fresh module file in dir ("" means the
// system temp directory), calls fn with its path and removes the file before
// returning, whether fn succeeds, fails or panics.
func WithModuleFile(ctx context.Context, dir string, fn func(path string) error, modules ...Module) (err error) {
	logger := ctxlog.FromContext(ctx)

	f, err := os.CreateTemp(dir, ModuleFilePattern)
	if err != nil {
		return fmt.Errorf("failed to create module file: %w", err)
	}
	path := f.Name()
	logger.Debug("Created module file.", "path", path)

	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = errors.Join(err, fmt.Errorf("failed to remove module file %s: %w", path, rmErr))
			return
		}
		logger.Debug("Removed module file.", "path", path)
	}()

	for _, m := range modules {
		if _, werr := m.WriteTo(f); werr != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write module file %s: %w", path, werr)
		}
	}
	if cerr := f.Close(); cerr != nil {
		return fmt.Errorf("failed to close module file %s: %w", path, cerr)
	}

	return fn(path)
}
