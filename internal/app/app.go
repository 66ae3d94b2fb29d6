package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/buildcheck/internal/ctxlog"
	"github.com/specialistvlad/buildcheck/internal/expectation"
	"github.com/specialistvlad/buildcheck/internal/mesoninfo"
	"github.com/specialistvlad/buildcheck/internal/pixbuf"
	"github.com/specialistvlad/buildcheck/internal/verifier"
)

// App runs one check per invocation. Results go to outW, logs and child
// diagnostics to errW.
type App struct {
	outW   io.Writer
	errW   io.Writer
	logger *slog.Logger
}

// NewApp is the constructor for the application. Each App has its own
// isolated logger writing to errW.
func NewApp(outW, errW io.Writer, logging Logging) *App {
	logger := newLogger(logging, errW)
	logger.Debug("Logger configured successfully.", "level", logging.LogLevel, "format", logging.LogFormat)

	return &App{
		outW:   outW,
		errW:   errW,
		logger: logger,
	}
}

// Verify checks the build targets of cfg.BuildRoot against the expectation
// table. Any returned error means the build does not match.
func (a *App) Verify(ctx context.Context, cfg *VerifyConfig) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Verify started.", "build_dir", cfg.BuildDir, "build_root", cfg.BuildRoot)

	table := expectation.Default()
	if cfg.ExpectationsPath != "" {
		var err error
		table, err = expectation.LoadFile(ctx, cfg.ExpectationsPath)
		if err != nil {
			return &ConfigError{Message: err.Error(), Err: err}
		}
	}

	report, err := mesoninfo.Load(ctx, cfg.BuildRoot)
	if err != nil {
		return err
	}

	v := verifier.New(cfg.BuildRoot, table, cfg.Env)
	v.KeepGoing = cfg.KeepGoing
	if err := v.Verify(ctx, report); err != nil {
		return err
	}

	a.logger.Info("Build targets match expectations.", "checked", table.Targets(), "source", table.Source)
	return nil
}

// ExerciseLoader registers the SVG loader plugin in a transient module file
// and runs the loader executable against the input image.
func (a *App) ExerciseLoader(ctx context.Context, cfg *LoaderConfig) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.ExerciseLoader started.", "loader", cfg.LoaderExe, "plugin", cfg.PluginPath)

	loader := pixbuf.NewLoader(cfg.LoaderExe)
	loader.Stdout = a.outW
	loader.Stderr = a.errW
	loader.Timeout = cfg.Timeout

	err := pixbuf.WithModuleFile(ctx, cfg.ModuleDir, func(moduleFile string) error {
		return loader.Run(ctx, moduleFile, cfg.Input, cfg.Output)
	}, pixbuf.SVGModule(cfg.PluginPath))
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", cfg.Input, err)
	}

	fmt.Fprintf(a.outW, "Successfully loaded %s and saved to %s\n", cfg.Input, cfg.Output)
	return nil
}
