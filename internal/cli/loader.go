package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/buildcheck/internal/app"
)

// ParseLoader processes the arguments of test-loader. Anything but exactly
// four positional arguments prints the usage and fails.
func ParseLoader(args []string, output io.Writer) (*app.LoaderConfig, bool, error) {
	slog.Debug("CLI parser started.", "command", "test-loader")
	fs := flag.NewFlagSet("test-loader", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.Usage = func() {
		fmt.Fprint(output, `Usage: test-loader [options] <rsvg-loader-exe> <loader-so> <svg-file> <output-png>

Options:
`)
		fs.PrintDefaults()
	}

	moduleDir := fs.String("module-dir", ".", "Directory for the transient gdk-pixbuf module file.")
	timeout := fs.Duration("timeout", 0, "Kill the loader after this long. 0 waits until it exits.")
	logging := loggingFlags(fs)

	if shouldExit, err := parseFlags(fs, args); shouldExit || err != nil {
		return nil, shouldExit, err
	}

	if fs.NArg() != 4 {
		fs.Usage()
		return nil, false, usageError("expected 4 arguments, got %d", fs.NArg())
	}

	config, err := app.NewLoaderConfig(app.LoaderConfig{
		LoaderExe:  fs.Arg(0),
		PluginPath: fs.Arg(1),
		Input:      fs.Arg(2),
		Output:     fs.Arg(3),
		ModuleDir:  *moduleDir,
		Timeout:    *timeout,
		Logging:    logging(),
	})
	if err != nil {
		return nil, false, configError(err)
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
