package expectation

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/buildcheck/internal/envvars"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
)

// Rule ties one target to the flag that decides whether it must exist.
type Rule struct {
	// Target is matched exactly against introspection target names.
	Target string
	// Flag names the environment variable that turns the expectation on.
	Flag string
	// Expected overrides the flag when it evaluates to a non-null value.
	Expected hcl.Expression
	// Requires lists files, relative to the build root, that must exist
	// whenever the target is expected.
	Requires []string
}

// Table is an ordered set of rules with unique target names.
type Table struct {
	Source string
	Rules  []Rule
}

// Targets returns the target names in table order.
func (t *Table) Targets() []string {
	names := make([]string, 0, len(t.Rules))
	for _, r := range t.Rules {
		names = append(names, r.Target)
	}
	return names
}

// Want reports whether the target must be present for the given environment.
func (r Rule) Want(env envvars.Snapshot) (bool, error) {
	if r.Expected == nil {
		return env.Flag(r.Flag), nil
	}

	val, diags := r.Expected.Value(EvalContext(env))
	if diags.HasErrors() {
		return false, fmt.Errorf("failed to evaluate expectation for %q: %w", r.Target, diags)
	}
	if val.IsNull() {
		return env.Flag(r.Flag), nil
	}

	boolVal, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("expectation for %q must be a bool, got %s", r.Target, val.Type().FriendlyName())
	}
	if !boolVal.IsWhollyKnown() || boolVal.IsNull() {
		return false, fmt.Errorf("expectation for %q evaluated to an unknown value", r.Target)
	}
	return boolVal.True(), nil
}

// EvalContext exposes the environment to `expected` expressions as the `env`
// object and the `flag(name)` and `getenv(name, fallback)` functions.
func EvalContext(env envvars.Snapshot) *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for name, value := range env.Map() {
		vars[name] = cty.StringVal(value)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
		Functions: map[string]function.Function{
			"flag":   flagFunc(env),
			"getenv": getenvFunc(env),
		},
	}
}

func flagFunc(env envvars.Snapshot) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "name", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.Bool),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return cty.BoolVal(env.Flag(args[0].AsString())), nil
		},
	})
}

// getenvFunc returns the variable's value, or fallback when it is unset.
func getenvFunc(env envvars.Snapshot) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "name", Type: cty.String},
			{Name: "fallback", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			if v, ok := env.Lookup(args[0].AsString()); ok {
				return cty.StringVal(v), nil
			}
			return args[1], nil
		},
	})
}
