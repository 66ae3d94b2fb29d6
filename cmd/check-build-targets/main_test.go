package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/specialistvlad/buildcheck/internal/cli"
	"github.com/specialistvlad/buildcheck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// invoke runs the command the way main does and returns its exit code and
// stderr.
func invoke(t *testing.T, environ []string, args ...string) (int, string) {
	t.Helper()
	out := &bytes.Buffer{}
	errW := &bytes.Buffer{}

	err := run(context.Background(), out, errW, environ, args)
	code := cli.Report(errW, err)
	return code, errW.String()
}

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name      string
		tidy      string
		scan      string
		targets   []string
		compileDB bool
		wantCode  int
		wantDiag  string
	}{
		{name: "nothing expected, nothing declared", targets: []string{"rsvg-2"}, wantCode: 0},
		{name: "both expected and declared", tidy: "1", scan: "1", targets: []string{"clang-tidy", "scan-build-analysis"}, compileDB: true, wantCode: 0},
		{name: "non-1 flag values are false", tidy: "true", scan: "yes", targets: []string{}, wantCode: 0},
		{name: "clang-tidy missing", tidy: "1", targets: []string{}, compileDB: true, wantCode: 1, wantDiag: "clang-tidy"},
		{name: "clang-tidy unexpected", targets: []string{"clang-tidy"}, wantCode: 1, wantDiag: "target present without expected tool"},
		{name: "compile database missing", tidy: "1", targets: []string{"clang-tidy"}, wantCode: 1, wantDiag: "compile_commands.json"},
		{name: "scan-build missing", scan: "1", targets: []string{}, wantCode: 1, wantDiag: "Expected scan-build-analysis target to be present"},
		{name: "scan-build unexpected", scan: "0", targets: []string{"scan-build-analysis"}, wantCode: 1, wantDiag: "scan-build-analysis target present without expected tool"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tree := testutil.NewBuildTree(t)
			tree.WriteTargets(t, tc.targets...)
			if tc.compileDB {
				tree.WriteCompileCommands(t)
			}

			environ := []string{"G_TEST_BUILDDIR=" + tree.TestDir}
			if tc.tidy != "" {
				environ = append(environ, "RSVG_EXPECT_CLANG_TIDY="+tc.tidy)
			}
			if tc.scan != "" {
				environ = append(environ, "RSVG_EXPECT_SCAN_BUILD="+tc.scan)
			}

			code, stderr := invoke(t, environ, "--log-level", "error")
			assert.Equal(t, tc.wantCode, code, "stderr: %s", stderr)
			if tc.wantDiag != "" {
				assert.Contains(t, stderr, tc.wantDiag)
			}
		})
	}
}

func TestRun_MissingBuildDir(t *testing.T) {
	code, stderr := invoke(t, []string{"RSVG_EXPECT_CLANG_TIDY=1"})

	assert.Equal(t, 1, code)
	assert.Equal(t, "G_TEST_BUILDDIR is not set\n", stderr)
}

func TestRun_MissingIntrospection(t *testing.T) {
	tree := testutil.NewBuildTree(t)

	code, stderr := invoke(t, []string{"G_TEST_BUILDDIR=" + tree.TestDir})

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Missing meson introspection data at: "+tree.Path("meson-info/intro-targets.json"))
}

func TestRun_MalformedIntrospection(t *testing.T) {
	tree := testutil.NewBuildTree(t)
	tree.WriteRaw(t, "meson-info/intro-targets.json", `[{"name": "clang-tidy"`)

	var code int
	var stderr string
	require.NotPanics(t, func() {
		code, stderr = invoke(t, []string{"G_TEST_BUILDDIR=" + tree.TestDir})
	})

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to load meson introspection data")
}

func TestRun_KeepGoing(t *testing.T) {
	tree := testutil.NewBuildTree(t)
	tree.WriteTargets(t)

	environ := []string{
		"G_TEST_BUILDDIR=" + tree.TestDir,
		"RSVG_EXPECT_CLANG_TIDY=1",
		"RSVG_EXPECT_SCAN_BUILD=1",
	}
	code, stderr := invoke(t, environ, "--keep-going", "--log-level", "error")

	assert.Equal(t, 1, code)
	for _, want := range []string{
		"Expected clang-tidy target to be present",
		fmt.Sprintf("Missing compile_commands.json at: %s", tree.Path("compile_commands.json")),
		"Expected scan-build-analysis target to be present",
	} {
		assert.Contains(t, stderr, want)
	}
}

func TestRun_Help(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, nil, []string{"-h"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	code, stderr := invoke(t, nil, "--this-is-not-a-valid-flag")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "flag provided but not defined: -this-is-not-a-valid-flag")
}
