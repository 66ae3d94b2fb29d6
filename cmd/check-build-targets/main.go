// Command check-build-targets verifies that a meson build declares exactly
// the static-analysis targets its configuration asks for.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/buildcheck/internal/app"
	"github.com/specialistvlad/buildcheck/internal/cli"
	"github.com/specialistvlad/buildcheck/internal/envvars"
)

func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	err := run(context.Background(), os.Stdout, os.Stderr, os.Environ(), os.Args[1:])
	os.Exit(cli.Report(os.Stderr, err))
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, environ, args []string) error {
	config, shouldExit, err := cli.ParseVerify(args, envvars.FromEnviron(environ), outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	return app.NewApp(outW, errW, config.Logging).Verify(ctx, config)
}
