package pixbuf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/specialistvlad/buildcheck/internal/ctxlog"
)

// RunError reports a loader process that did not exit successfully.
type RunError struct {
	Exe      string
	ExitCode int
	Err      error
}

func (e *RunError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s exited with status %d", e.Exe, e.ExitCode)
	}
	return fmt.Sprintf("%s failed: %v", e.Exe, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Loader runs a pixbuf loader executable as `exe <input> <output>`.
type Loader struct {
	Exe string
	// Environ is the base environment of the child; nil means os.Environ().
	Environ []string
	Stdout  io.Writer
	Stderr  io.Writer
	// Timeout bounds the child; zero waits until it exits.
	Timeout time.Duration
}

// NewLoader creates a Loader that inherits the process environment and
// output streams.
func NewLoader(exe string) *Loader {
	return &Loader{
		Exe:    exe,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes the loader with GDK_PIXBUF_MODULE_FILE set to moduleFile in
// the child's environment only. It blocks until the child exits, the
// timeout expires or ctx is cancelled.
func (l *Loader) Run(ctx context.Context, moduleFile, input, output string) error {
	logger := ctxlog.FromContext(ctx)

	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	environ := l.Environ
	if environ == nil {
		environ = os.Environ()
	}

	cmd := exec.CommandContext(ctx, l.Exe, input, output)
	cmd.Env = append(append([]string(nil), environ...), ModuleFileEnv+"="+moduleFile)
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	logger.Debug("Starting loader.", "exe", l.Exe, "input", input, "output", output, "module_file", moduleFile)
	start := time.Now()
	err := cmd.Run()
	logger.Debug("Loader finished.", "duration", time.Since(start), "error", err)
	if err == nil {
		return nil
	}

	runErr := &RunError{Exe: l.Exe, ExitCode: -1, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		runErr.ExitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		runErr.ExitCode = -1
		runErr.Err = fmt.Errorf("%w: %v", ctxErr, err)
	}
	return runErr
}
