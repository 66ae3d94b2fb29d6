package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/buildcheck/internal/app"
)

// Exit codes shared by both commands.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: ExitFailure, Message: fmt.Sprintf(format, args...)}
}

// Report writes the diagnostic for err to w and returns the process exit
// code. A nil error is success.
func Report(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintln(w, exitErr.Message)
		}
		return exitErr.Code
	}
	fmt.Fprintln(w, err)
	return ExitFailure
}

// loggingFlags registers the flags shared by both commands.
func loggingFlags(fs *flag.FlagSet) func() app.Logging {
	logFormat := fs.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevel := fs.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	return func() app.Logging {
		return app.Logging{
			LogLevel:  strings.ToLower(*logLevel),
			LogFormat: strings.ToLower(*logFormat),
		}
	}
}

// parseFlags runs fs.Parse and maps -h to a clean exit.
func parseFlags(fs *flag.FlagSet, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return false, usageError("%s", err.Error())
	}
	slog.Debug("Arguments parsed successfully.", "command", fs.Name())
	return false, nil
}

// configError converts app configuration errors into exit errors.
func configError(err error) error {
	var cfgErr *app.ConfigError
	if errors.As(err, &cfgErr) {
		return &ExitError{Code: ExitFailure, Message: cfgErr.Message}
	}
	return err
}
