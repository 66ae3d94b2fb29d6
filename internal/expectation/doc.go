// Package expectation defines which analysis targets a build must (or must
// not) declare. A table is an ordered list of rules, each tying one target
// name to one environment flag, so supporting another analysis tool is a new
// `target` block rather than new code.
//
// Tables are written in HCL:
//
//	target "clang-tidy" {
//	  flag     = "RSVG_EXPECT_CLANG_TIDY"
//	  requires = ["compile_commands.json"]
//	}
//
// A target is expected when its flag variable equals "1". The optional
// `expected` attribute replaces that rule with a boolean expression which may
// use the `env` object and the `flag(name)` and `getenv(name, fallback)`
// functions.
//
// `env.NAME` is an evaluation error when NAME is unset, which fails the
// check. For variables that may be unset use `flag("NAME")` (false when
// unset) or `getenv("NAME", "")`:
//
//	expected = flag("RSVG_EXPECT_CPPCHECK") || getenv("CI_ALL_ANALYZERS", "") == "yes"
package expectation
