// Command test-loader smoke-tests the SVG gdk-pixbuf loader: it registers the
// plugin in a transient module file and runs a loader executable on an image.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/buildcheck/internal/app"
	"github.com/specialistvlad/buildcheck/internal/cli"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	// Cancelling kills the loader; the module file is removed on the way out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	os.Exit(cli.Report(os.Stderr, err))
}

func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	config, shouldExit, err := cli.ParseLoader(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	return app.NewApp(outW, errW, config.Logging).ExerciseLoader(ctx, config)
}
