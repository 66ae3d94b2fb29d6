package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/buildcheck/internal/app"
	"github.com/specialistvlad/buildcheck/internal/envvars"
)

// ParseVerify processes the arguments of check-build-targets. It returns a
// populated VerifyConfig, a boolean indicating if the program should exit
// cleanly, or an ExitError.
func ParseVerify(args []string, env envvars.Snapshot, output io.Writer) (*app.VerifyConfig, bool, error) {
	slog.Debug("CLI parser started.", "command", "check-build-targets")
	fs := flag.NewFlagSet("check-build-targets", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.Usage = func() {
		fmt.Fprint(output, `
check-build-targets - Verify the analysis targets of a meson build.

Usage:
  check-build-targets [options]

Environment:
  G_TEST_BUILDDIR          Build test directory; its parent is the build root (required).
  RSVG_EXPECT_CLANG_TIDY   "1" if the clang-tidy target must exist.
  RSVG_EXPECT_SCAN_BUILD   "1" if the scan-build-analysis target must exist.

Options:
`)
		fs.PrintDefaults()
	}

	envFile := fs.String("env-file", "", "Dotenv file layered under the process environment.")
	expectations := fs.String("expectations", "", "HCL file with target expectations. Defaults to the built-in table.")
	keepGoing := fs.Bool("keep-going", false, "Report every failed expectation instead of stopping at the first.")
	logging := loggingFlags(fs)

	if shouldExit, err := parseFlags(fs, args); shouldExit || err != nil {
		return nil, shouldExit, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, false, usageError("unexpected arguments: %v", fs.Args())
	}

	if *envFile != "" {
		var err error
		env, err = env.WithDotenv(*envFile)
		if err != nil {
			return nil, false, usageError("%s", err.Error())
		}
		slog.Debug("Env file loaded.", "path", *envFile)
	}

	config, err := app.NewVerifyConfig(app.VerifyConfig{
		BuildDir:         env.Get(app.BuildDirEnv),
		ExpectationsPath: *expectations,
		KeepGoing:        *keepGoing,
		Env:              env,
		Logging:          logging(),
	})
	if err != nil {
		return nil, false, configError(err)
	}

	slog.Debug("CLI parser finished successfully.", "build_root", config.BuildRoot)
	return config, false, nil
}
