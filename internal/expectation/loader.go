package expectation

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/buildcheck/internal/ctxlog"
)

//go:embed default.hcl
var defaultTable []byte

// DefaultSource names the built-in table in diagnostics.
const DefaultSource = "default.hcl"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the built-in table (clang-tidy and scan-build-analysis).
func Default() *Table {
	t, err := Parse(defaultTable, DefaultSource)
	if err != nil {
		panic(fmt.Errorf("built-in expectations are invalid: %w", err))
	}
	return t
}

// LoadFile reads an expectations table from an HCL file.
func LoadFile(ctx context.Context, path string) (*Table, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading expectations file.", "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read expectations file %s: %w", path, err)
	}

	t, err := Parse(src, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Expectations loaded.", "targets", t.Targets())
	return t, nil
}

// Parse decodes and validates an expectations table.
func Parse(src []byte, filename string) (*Table, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse expectations file %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode expectations file %s: %w", filename, diags)
	}

	if err := validate.Struct(&root); err != nil {
		return nil, fmt.Errorf("invalid expectations file %s: %w", filename, describe(err))
	}

	t := &Table{Source: filename}
	seen := make(map[string]struct{}, len(root.Targets))
	for _, b := range root.Targets {
		if _, dup := seen[b.Name]; dup {
			return nil, fmt.Errorf("invalid expectations file %s: target %q declared more than once", filename, b.Name)
		}
		seen[b.Name] = struct{}{}

		rule, err := translateTarget(b)
		if err != nil {
			return nil, fmt.Errorf("invalid expectations file %s: %w", filename, err)
		}
		t.Rules = append(t.Rules, rule)
	}
	return t, nil
}

// translateTarget converts the HCL block into a Rule, rejecting companion
// paths that escape the build root and expressions that reference anything
// other than `env`.
func translateTarget(b *targetBlock) (Rule, error) {
	for _, req := range b.Requires {
		clean := filepath.Clean(req)
		if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return Rule{}, fmt.Errorf("target %q: required file %q must be relative to the build root", b.Name, req)
		}
	}

	var expr hcl.Expression
	if b.Expected != nil {
		// An omitted attribute decodes to a static null; keep the flag rule.
		if val, diags := b.Expected.Value(nil); !diags.HasErrors() && val.IsNull() {
			return Rule{Target: b.Name, Flag: b.Flag, Requires: b.Requires}, nil
		}
		for _, traversal := range b.Expected.Variables() {
			if root := traversal.RootName(); root != "env" {
				return Rule{}, fmt.Errorf("target %q: unknown variable %q in expected", b.Name, root)
			}
		}
		expr = b.Expected
	}

	return Rule{
		Target:   b.Name,
		Flag:     b.Flag,
		Expected: expr,
		Requires: b.Requires,
	}, nil
}

// describe flattens validator errors into one readable error.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
