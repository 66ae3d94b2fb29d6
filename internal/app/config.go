package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/buildcheck/internal/envvars"
)

// BuildDirEnv names the build test-output directory; its parent is the
// build root.
const BuildDirEnv = "G_TEST_BUILDDIR"

var validate = validator.New(validator.WithRequiredStructEnabled())

// ConfigError is a fatal configuration problem detected before any work.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Logging selects the slog handler of a command.
type Logging struct {
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=text json"`
}

// VerifyConfig holds everything check-build-targets needs. It is built once
// at startup; the checks never read the process environment.
type VerifyConfig struct {
	BuildDir string `validate:"required"`
	// BuildRoot is derived from BuildDir by NewVerifyConfig.
	BuildRoot string
	// ExpectationsPath is an HCL table; empty selects the built-in table.
	ExpectationsPath string
	KeepGoing        bool
	Env              envvars.Snapshot `validate:"-"`
	Logging
}

// NewVerifyConfig validates cfg and derives the build root.
func NewVerifyConfig(cfg VerifyConfig) (*VerifyConfig, error) {
	if cfg.BuildDir == "" {
		return nil, &ConfigError{Message: BuildDirEnv + " is not set"}
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, &ConfigError{Message: describe(err)}
	}

	cfg.BuildRoot = filepath.Dir(cfg.BuildDir)
	return &cfg, nil
}

// LoaderConfig holds everything test-loader needs.
type LoaderConfig struct {
	LoaderExe  string `validate:"required"`
	PluginPath string `validate:"required"`
	Input      string `validate:"required"`
	Output     string `validate:"required"`
	// ModuleDir receives the transient module file.
	ModuleDir string
	// Timeout bounds the loader process; zero waits forever.
	Timeout time.Duration `validate:"gte=0"`
	Logging
}

// NewLoaderConfig validates cfg.
func NewLoaderConfig(cfg LoaderConfig) (*LoaderConfig, error) {
	if err := validate.Struct(&cfg); err != nil {
		return nil, &ConfigError{Message: describe(err)}
	}
	return &cfg, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("invalid %s %q: must be %s %s", fe.Field(), fe.Value(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
