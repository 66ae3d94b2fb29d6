package verifier

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/buildcheck/internal/ctxlog"
	"github.com/specialistvlad/buildcheck/internal/envvars"
	"github.com/specialistvlad/buildcheck/internal/expectation"
	"github.com/specialistvlad/buildcheck/internal/fsutil"
	"github.com/specialistvlad/buildcheck/internal/mesoninfo"
)

// TargetSet is the part of an introspection report the verifier needs.
type TargetSet interface {
	Has(name string) bool
}

var _ TargetSet = (*mesoninfo.Report)(nil)

// Verifier evaluates an expectation table against one build.
type Verifier struct {
	BuildRoot string
	Table     *expectation.Table
	Env       envvars.Snapshot
	// KeepGoing collects every failure instead of stopping at the first one.
	KeepGoing bool
}

// New creates a fail-fast Verifier.
func New(buildRoot string, table *expectation.Table, env envvars.Snapshot) *Verifier {
	return &Verifier{
		BuildRoot: buildRoot,
		Table:     table,
		Env:       env,
	}
}

// Verify checks every rule in table order. In fail-fast mode the first
// failure is returned; with KeepGoing all failures are joined.
func (v *Verifier) Verify(ctx context.Context, targets TargetSet) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Verifying build targets.", "build_root", v.BuildRoot, "rules", len(v.Table.Rules), "keep_going", v.KeepGoing)

	var errs []error
	for _, rule := range v.Table.Rules {
		ruleErrs, err := v.checkRule(ctx, rule, targets)
		if err != nil {
			// Evaluation and I/O failures are never collected.
			return err
		}
		if len(ruleErrs) == 0 {
			continue
		}
		if !v.KeepGoing {
			return ruleErrs[0]
		}
		errs = append(errs, ruleErrs...)
	}

	if len(errs) > 0 {
		logger.Debug("Build target verification failed.", "failures", len(errs))
		return errors.Join(errs...)
	}
	logger.Debug("Build target verification passed.")
	return nil
}

// checkRule returns the expectation failures of one rule, in the order they
// are detected, plus any error that prevented the check.
func (v *Verifier) checkRule(ctx context.Context, rule expectation.Rule, targets TargetSet) ([]error, error) {
	ctx = ctxlog.With(ctx, "target", rule.Target, "flag", rule.Flag)
	logger := ctxlog.FromContext(ctx)

	want, err := rule.Want(v.Env)
	if err != nil {
		return nil, err
	}
	present := targets.Has(rule.Target)
	logger.Debug("Evaluated target expectation.", "expected", want, "present", present)

	var failures []error
	if want != present {
		failures = append(failures, &MismatchError{Target: rule.Target, Present: present})
		if !v.KeepGoing {
			return failures, nil
		}
	}

	if !want {
		return failures, nil
	}

	for _, rel := range rule.Requires {
		path := filepath.Join(v.BuildRoot, rel)
		ok, err := fsutil.Exists(path)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s for %s: %w", rel, rule.Target, err)
		}
		logger.Debug("Checked companion artifact.", "path", path, "exists", ok)
		if !ok {
			failures = append(failures, &MissingArtifactError{
				Target: rule.Target,
				Name:   filepath.Base(rel),
				Path:   path,
			})
			if !v.KeepGoing {
				return failures, nil
			}
		}
	}
	return failures, nil
}
