package verifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/specialistvlad/buildcheck/internal/ctxlog"
	"github.com/specialistvlad/buildcheck/internal/envvars"
	"github.com/specialistvlad/buildcheck/internal/expectation"
	"github.com/specialistvlad/buildcheck/internal/mesoninfo"
	"github.com/specialistvlad/buildcheck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flags(tidy, scan bool) envvars.Snapshot {
	vars := map[string]string{}
	if tidy {
		vars["RSVG_EXPECT_CLANG_TIDY"] = "1"
	}
	if scan {
		vars["RSVG_EXPECT_SCAN_BUILD"] = "1"
	}
	return envvars.New(vars)
}

func loadReport(t *testing.T, tree *testutil.BuildTree) *mesoninfo.Report {
	t.Helper()
	report, err := mesoninfo.Load(context.Background(), tree.Root)
	require.NoError(t, err)
	return report
}

// TestVerify_Grid walks every combination of flags, declared targets and
// compile_commands.json and checks that verification passes exactly when the
// targets match the flags and clang-tidy has its compile database.
func TestVerify_Grid(t *testing.T) {
	for _, expectTidy := range []bool{false, true} {
		for _, expectScan := range []bool{false, true} {
			for _, hasTidy := range []bool{false, true} {
				for _, hasScan := range []bool{false, true} {
					for _, hasCompileDB := range []bool{false, true} {
						name := fmt.Sprintf("expect_tidy=%t/expect_scan=%t/tidy=%t/scan=%t/compile_db=%t",
							expectTidy, expectScan, hasTidy, hasScan, hasCompileDB)
						t.Run(name, func(t *testing.T) {
							tree := testutil.NewBuildTree(t)
							var names []string
							if hasTidy {
								names = append(names, "clang-tidy")
							}
							if hasScan {
								names = append(names, "scan-build-analysis")
							}
							tree.WriteTargets(t, append(names, "rsvg-2")...)
							if hasCompileDB {
								tree.WriteCompileCommands(t)
							}

							for _, keepGoing := range []bool{false, true} {
								v := New(tree.Root, expectation.Default(), flags(expectTidy, expectScan))
								v.KeepGoing = keepGoing
								err := v.Verify(context.Background(), loadReport(t, tree))

								wantPass := hasTidy == expectTidy && hasScan == expectScan &&
									(!expectTidy || hasCompileDB)
								if wantPass {
									assert.NoError(t, err, "keep_going=%t", keepGoing)
								} else {
									assert.Error(t, err, "keep_going=%t", keepGoing)
								}
							}
						})
					}
				}
			}
		}
	}
}

func TestVerify_Messages(t *testing.T) {
	tests := []struct {
		name       string
		env        envvars.Snapshot
		targets    []string
		compileDB  bool
		wantErr    string
		assertType func(t *testing.T, err error)
	}{
		{
			name:    "clang-tidy expected but missing",
			env:     flags(true, false),
			targets: []string{"rsvg-2"},
			wantErr: "Expected clang-tidy target to be present",
			assertType: func(t *testing.T, err error) {
				var mm *MismatchError
				require.ErrorAs(t, err, &mm)
				assert.Equal(t, "clang-tidy", mm.Target)
				assert.False(t, mm.Present)
			},
		},
		{
			name:    "clang-tidy present but not expected",
			env:     flags(false, false),
			targets: []string{"clang-tidy"},
			wantErr: "clang-tidy target present without expected tool",
			assertType: func(t *testing.T, err error) {
				var mm *MismatchError
				require.ErrorAs(t, err, &mm)
				assert.True(t, mm.Present)
			},
		},
		{
			name:    "scan-build expected but missing",
			env:     flags(false, true),
			targets: []string{},
			wantErr: "Expected scan-build-analysis target to be present",
		},
		{
			name:    "scan-build present but not expected",
			env:     flags(false, false),
			targets: []string{"scan-build-analysis"},
			wantErr: "scan-build-analysis target present without expected tool",
		},
		{
			name:    "compile database missing",
			env:     flags(true, false),
			targets: []string{"clang-tidy"},
			wantErr: "Missing compile_commands.json at: ",
			assertType: func(t *testing.T, err error) {
				var missing *MissingArtifactError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, "clang-tidy", missing.Target)
				assert.Equal(t, "compile_commands.json", missing.Name)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tree := testutil.NewBuildTree(t)
			tree.WriteTargets(t, tc.targets...)
			if tc.compileDB {
				tree.WriteCompileCommands(t)
			}

			err := New(tree.Root, expectation.Default(), tc.env).Verify(context.Background(), loadReport(t, tree))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			if tc.assertType != nil {
				tc.assertType(t, err)
			}
		})
	}
}

func TestVerify_CompileDatabasePathIsUnderBuildRoot(t *testing.T) {
	tree := testutil.NewBuildTree(t)
	tree.WriteTargets(t, "clang-tidy")

	err := New(tree.Root, expectation.Default(), flags(true, false)).Verify(context.Background(), loadReport(t, tree))
	require.Error(t, err)
	assert.Equal(t, "Missing compile_commands.json at: "+tree.Path("compile_commands.json"), err.Error())
}

func TestVerify_FailFastStopsAtFirstFailure(t *testing.T) {
	tree := testutil.NewBuildTree(t)
	tree.WriteTargets(t)

	err := New(tree.Root, expectation.Default(), flags(true, true)).Verify(context.Background(), loadReport(t, tree))
	require.Error(t, err)
	assert.Equal(t, "Expected clang-tidy target to be present", err.Error())
}

func TestVerify_KeepGoingReportsAllFailures(t *testing.T) {
	tree := testutil.NewBuildTree(t)
	tree.WriteTargets(t)

	v := New(tree.Root, expectation.Default(), flags(true, true))
	v.KeepGoing = true
	err := v.Verify(context.Background(), loadReport(t, tree))

	testutil.RequireErrorLines(t, err,
		"Expected clang-tidy target to be present",
		"Missing compile_commands.json at: "+tree.Path("compile_commands.json"),
		"Expected scan-build-analysis target to be present",
	)

	var missing *MissingArtifactError
	assert.True(t, errors.As(err, &missing))
}

func TestVerify_CustomTable(t *testing.T) {
	table, err := expectation.Parse([]byte(`
target "cppcheck" {
  flag     = "RSVG_EXPECT_CPPCHECK"
  requires = ["cppcheck/compile_commands.json"]
}
`), "custom.hcl")
	require.NoError(t, err)

	tree := testutil.NewBuildTree(t)
	tree.WriteTargets(t, "cppcheck", "clang-tidy")
	tree.WriteRaw(t, "cppcheck/compile_commands.json", "[]")

	env := envvars.New(map[string]string{"RSVG_EXPECT_CPPCHECK": "1"})
	err = New(tree.Root, table, env).Verify(context.Background(), loadReport(t, tree))
	assert.NoError(t, err, "targets outside the table are not checked")
}

func TestVerify_ExpressionErrorIsNotCollected(t *testing.T) {
	table, err := expectation.Parse([]byte(`
target "clang-tidy" {
  flag     = "RSVG_EXPECT_CLANG_TIDY"
  expected = env.UNSET == "1"
}
`), "broken.hcl")
	require.NoError(t, err)

	tree := testutil.NewBuildTree(t)
	tree.WriteTargets(t)

	v := New(tree.Root, table, envvars.New(nil))
	v.KeepGoing = true
	err = v.Verify(context.Background(), loadReport(t, tree))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to evaluate expectation")
}

type fakeTargets map[string]bool

func (f fakeTargets) Has(name string) bool { return f[name] }

func TestVerify_AcceptsAnyTargetSet(t *testing.T) {
	tree := testutil.NewBuildTree(t)
	tree.WriteCompileCommands(t)

	err := New(tree.Root, expectation.Default(), flags(true, true)).
		Verify(context.Background(), fakeTargets{"clang-tidy": true, "scan-build-analysis": true})
	assert.NoError(t, err)
}

func TestVerify_RuleLogsCarryTarget(t *testing.T) {
	tree := testutil.NewBuildTree(t)
	tree.WriteCompileCommands(t)

	logs := &testutil.SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	err := New(tree.Root, expectation.Default(), flags(true, false)).
		Verify(ctx, fakeTargets{"clang-tidy": true})
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "target=clang-tidy flag=RSVG_EXPECT_CLANG_TIDY")
	assert.Contains(t, logs.String(), "target=scan-build-analysis flag=RSVG_EXPECT_SCAN_BUILD")
}
