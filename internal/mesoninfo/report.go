package mesoninfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/buildcheck/internal/ctxlog"
	"github.com/specialistvlad/buildcheck/internal/fsutil"
)

// TargetsFile is the location of the target list relative to the build root.
var TargetsFile = filepath.Join("meson-info", "intro-targets.json")

var (
	// ErrReportMissing is returned when intro-targets.json does not exist.
	ErrReportMissing = errors.New("missing meson introspection data")
	// ErrMalformedReport is returned when intro-targets.json cannot be decoded
	// as a list of target objects.
	ErrMalformedReport = errors.New("malformed meson introspection data")
)

// Target is one entry of intro-targets.json. Only the name is decoded; the
// other fields vary between meson versions and are ignored.
type Target struct {
	Name string `json:"name"`
}

// Report is the decoded target list of a build.
type Report struct {
	Path    string
	Targets []Target
}

// ReportPath returns the expected location of intro-targets.json.
func ReportPath(buildRoot string) string {
	return filepath.Join(buildRoot, TargetsFile)
}

// Load reads and decodes the target list under buildRoot.
func Load(ctx context.Context, buildRoot string) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	path := ReportPath(buildRoot)
	logger.Debug("Loading meson introspection data.", "path", path)

	ok, err := fsutil.Exists(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &LoadError{Path: path, Err: ErrReportMissing}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	report, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	report.Path = path

	logger.Debug("Meson introspection data loaded.", "count", len(report.Targets), "targets", report.Names())
	return report, nil
}

// Parse decodes the contents of intro-targets.json. The document must be a
// JSON array of objects; an object without a name never matches a target.
func Parse(data []byte) (*Report, error) {
	var targets []Target
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	if targets == nil {
		// "null" decodes without error but is not a target list.
		return nil, fmt.Errorf("%w: expected a list of targets", ErrMalformedReport)
	}
	return &Report{Targets: targets}, nil
}

// Has reports whether any target is named exactly name.
func (r *Report) Has(name string) bool {
	for _, t := range r.Targets {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Names returns the target names in report order.
func (r *Report) Names() []string {
	names := make([]string, 0, len(r.Targets))
	for _, t := range r.Targets {
		names = append(names, t.Name)
	}
	return names
}

// LoadError ties a load failure to the report path.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if errors.Is(e.Err, ErrReportMissing) {
		return "Missing meson introspection data at: " + e.Path
	}
	return fmt.Sprintf("failed to load meson introspection data at %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
